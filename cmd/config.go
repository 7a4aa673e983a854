package cmd

import (
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost             string
	KafkaOrderEventsTopic string

	AssignInitialRadiusKm string
	AssignMaxRadiusKm     string
	AssignGrowthFactor    string
	AssignMaxAttempts     string
	AssignOfferTTLSeconds string

	ArrivingThresholdKm string

	EmailGatewayURL string
	SMSGatewayURL   string
	PushGatewayURL  string

	BroadcastMaxConcurrent string
}

// AssignmentPolicy builds the matching policy from the ASSIGN_* variables.
// Unset or unparsable values fall back to the default policy field by field.
func (c Config) AssignmentPolicy() assignment.Policy {
	policy := assignment.DefaultPolicy()

	if v, err := strconv.ParseFloat(c.AssignInitialRadiusKm, 64); err == nil && v > 0 {
		policy.InitialRadius = kernel.Kilometers(v)
	}
	if v, err := strconv.ParseFloat(c.AssignMaxRadiusKm, 64); err == nil && v > 0 {
		policy.MaxRadius = kernel.Kilometers(v)
	}
	if v, err := strconv.ParseFloat(c.AssignGrowthFactor, 64); err == nil && v > 1 {
		policy.GrowthFactor = v
	}
	if v, err := strconv.Atoi(c.AssignMaxAttempts); err == nil && v > 0 {
		policy.MaxAttempts = v
	}
	if v, err := strconv.Atoi(c.AssignOfferTTLSeconds); err == nil && v > 0 {
		policy.OfferTTL = time.Duration(v) * time.Second
	}

	return policy
}

// ArrivingThreshold returns the radius within which a rider position report
// counts as arriving. Zero means use the handler default.
func (c Config) ArrivingThreshold() kernel.Kilometers {
	if v, err := strconv.ParseFloat(c.ArrivingThresholdKm, 64); err == nil && v > 0 {
		return kernel.Kilometers(v)
	}
	return 0
}

// BroadcastConcurrency returns the broadcast fan-out bound, defaulting to 8.
func (c Config) BroadcastConcurrency() int {
	if v, err := strconv.Atoi(c.BroadcastMaxConcurrent); err == nil && v > 0 {
		return v
	}
	return 8
}
