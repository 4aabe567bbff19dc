package checkoutapi

import (
	"fmt"
	"strings"
)

type PlanType string

const (
	PlanTypeZeroInterest PlanType = "zero-interest"
	PlanTypeStandard     PlanType = "standard"
)

var planSelectors = map[string]PlanType{
	"bnpl":          PlanTypeZeroInterest,
	"zero":          PlanTypeZeroInterest,
	"zero-interest": PlanTypeZeroInterest,
	"zero_interest": PlanTypeZeroInterest,
	"bog_loan":      PlanTypeStandard,
	"loan":          PlanTypeStandard,
	"standard":      PlanTypeStandard,
	"installment":   PlanTypeStandard,
}

func ParsePlanType(selector string) (PlanType, error) {
	plan, found := planSelectors[strings.ToLower(strings.TrimSpace(selector))]
	if !found {
		return "", newValidationError(msgUnknownPlan)
	}
	return plan, nil
}

// PlanPolicy is deployment configuration: the processor contract decides the month rules.
type PlanPolicy struct {
	ZeroInterestMonths int
	StandardMinMonths  int
}

func DefaultPlanPolicy() PlanPolicy {
	return PlanPolicy{
		ZeroInterestMonths: 4,
		StandardMinMonths:  3,
	}
}

func (p PlanPolicy) Validate() error {
	if p.ZeroInterestMonths <= 0 {
		return fmt.Errorf("zero-interest months must be positive, got %d", p.ZeroInterestMonths)
	}
	if p.StandardMinMonths <= 0 {
		return fmt.Errorf("standard minimum months must be positive, got %d", p.StandardMinMonths)
	}
	return nil
}

// Resolve returns the term that is sent to the processor.
func (p PlanPolicy) Resolve(plan PlanType, requestedMonths int) int {
	if plan == PlanTypeZeroInterest {
		return p.ZeroInterestMonths
	}
	return max(requestedMonths, p.StandardMinMonths)
}
