// Package policy decides whether a named asset may serve an intent.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Input is the document the policy evaluates.
type Input struct {
	Intent             string   `json:"intent"`
	RequiredCapability string   `json:"required_capability"`
	AssetID            string   `json:"asset_id"`
	AssetType          string   `json:"asset_type"`
	Capabilities       []string `json:"capabilities"`
}

// NewInput builds the policy input for an intent addressed to asset.
func NewInput(keyword string, required domain.Capability, asset domain.Asset) Input {
	caps := make([]string, len(asset.Capabilities))
	for i, c := range asset.Capabilities {
		caps[i] = string(c)
	}
	return Input{
		Intent:             keyword,
		RequiredCapability: string(required),
		AssetID:            asset.ID,
		AssetType:          string(asset.Type),
		Capabilities:       caps,
	}
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.dispatch_policy.decision"),
		rego.Module("dispatch_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the policy at path, or DefaultPolicy when path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate checks the dispatch policy.
// Returns: decision (allow, deny), reason (optional), error
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "default", nil
	}

	switch v := results[0].Expressions[0].Value.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		decision, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		if decision == "" {
			return "", "", fmt.Errorf("policy object has no decision")
		}
		return decision, reason, nil
	}
	return "", "", fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
}

// DefaultPolicy gates a named asset on the capability the intent requires.
// Intents without a required capability are open to every asset.
const DefaultPolicy = `
package dispatch_policy

default decision = "allow"

decision = "deny" {
	input.required_capability != ""
	not has_capability
}

has_capability {
	input.capabilities[_] == input.required_capability
}
`
