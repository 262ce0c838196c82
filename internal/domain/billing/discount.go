package billing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

// Rule is a promotion that may yield one automatic discount for the current lines.
// Rules must be pure functions of their inputs.
type Rule interface {
	ID() string
	Apply(subtotal money.Amount, lines []entity.CartLine) (entity.AutoDiscount, bool)
}

// ThresholdRule grants a percentage off when the subtotal exceeds a threshold
type ThresholdRule struct {
	RuleID    string
	Threshold money.Amount
	Percent   decimal.Decimal
}

// NewThresholdRule creates the "N% off above X" promotion
func NewThresholdRule(id string, threshold money.Amount, percent decimal.Decimal) ThresholdRule {
	return ThresholdRule{RuleID: id, Threshold: threshold, Percent: percent}
}

func (r ThresholdRule) ID() string {
	return r.RuleID
}

// Label renders e.g. "10% off on purchases above ₹1000"
func (r ThresholdRule) Label() string {
	return fmt.Sprintf("%s%% off on purchases above ₹%s", r.Percent.String(), r.Threshold.Decimal().String())
}

func (r ThresholdRule) Apply(subtotal money.Amount, _ []entity.CartLine) (entity.AutoDiscount, bool) {
	if subtotal <= r.Threshold {
		return entity.AutoDiscount{}, false
	}
	return entity.AutoDiscount{
		ID:     r.RuleID,
		Label:  r.Label(),
		Amount: money.Percent(subtotal, r.Percent),
	}, true
}

// Evaluator derives the automatic discounts for a set of lines
type Evaluator interface {
	Evaluate(ctx context.Context, lines []entity.CartLine) ([]entity.AutoDiscount, error)
}

// RuleSet evaluates its rules from scratch on every call.
// A rule id appears at most once, so a satisfied rule is never applied twice.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set, keeping the first rule for any duplicated id
func NewRuleSet(rules ...Rule) *RuleSet {
	seen := make(map[string]bool, len(rules))
	rs := &RuleSet{}
	for _, r := range rules {
		if seen[r.ID()] {
			continue
		}
		seen[r.ID()] = true
		rs.rules = append(rs.rules, r)
	}
	return rs
}

// DefaultRuleSet is the store's standard promotion: 10% off above ₹1000
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(NewThresholdRule("AUTO-001", money.Major(1000), decimal.NewFromInt(10)))
}

func (rs *RuleSet) Evaluate(ctx context.Context, lines []entity.CartLine) ([]entity.AutoDiscount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	subtotal := Subtotal(lines)
	out := make([]entity.AutoDiscount, 0, len(rs.rules))
	for _, r := range rs.rules {
		if d, ok := r.Apply(subtotal, lines); ok && d.Amount > 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

// ManualDiscountInput is an unvalidated manual discount as entered by an operator
type ManualDiscountInput struct {
	Type       enum.DiscountType
	Value      *float64
	Reason     string
	ApprovedBy string
}

// Build validates the input. On failure nothing is produced.
func (in ManualDiscountInput) Build() (entity.ManualDiscount, error) {
	var fieldErrors []apperror.FieldError
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "reason", Message: "is required"})
	}

	switch {
	case in.Value == nil:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "is required"})
	case math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0):
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "must be a finite number"})
	case *in.Value <= 0:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "must be greater than 0"})
	case in.Type == enum.DiscountTypePercent && *in.Value > 100:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "percent cannot exceed 100"})
	case in.Type != enum.DiscountTypePercent:
		// amount discounts are applied in minor units, so check them there
		amount, err := money.Parse(decimal.NewFromFloat(*in.Value))
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: fmt.Sprintf("cannot exceed %s", money.MaxAmount)})
		case amount <= 0:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "must be at least 0.01"})
		}
	}

	if len(fieldErrors) > 0 {
		return entity.ManualDiscount{}, apperror.NewValidationError(fieldErrors)
	}
	return entity.ManualDiscount{
		Type:       in.Type,
		Value:      decimal.NewFromFloat(*in.Value),
		Reason:     reason,
		ApprovedBy: strings.TrimSpace(in.ApprovedBy),
	}, nil
}

// ManualDiscountTotal evaluates every bill discount against the same subtotal, so entries never compound
func ManualDiscountTotal(discounts []entity.ManualDiscount, subtotal money.Amount) money.Amount {
	var sum money.Amount
	for _, d := range discounts {
		sum += DiscountValue(d, subtotal)
	}
	return sum
}

// TotalDiscount is the auto discounts plus the manual bill discounts
func TotalDiscount(auto []entity.AutoDiscount, manual []entity.ManualDiscount, subtotal money.Amount) money.Amount {
	var sum money.Amount
	for _, d := range auto {
		sum += d.Amount
	}
	return sum + ManualDiscountTotal(manual, subtotal)
}
