package policy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrEthical07/goAuthz/permission"
)

// Rule configures the authorization layers of one operation.
//
// RequireAuthorities is the mandatory layer: every listed authority must be
// held or the operation is denied outright. The remaining fields are
// alternative grant paths combined with OR: holding any bypass authority,
// satisfying the predicate expression, or holding the required ACL mask on
// the target resource. A rule with a mandatory layer and no paths grants on
// the mandatory layer alone.
type Rule struct {
	RequireAuthorities []string
	BypassAuthorities  []string
	Predicate          Expr
	RequiredMask       permission.Mask
}

// InstanceScoped reports whether the rule consults the ACL layer.
func (r Rule) InstanceScoped() bool {
	return r.RequiredMask != 0
}

func (r Rule) empty() bool {
	return len(r.RequireAuthorities) == 0 &&
		len(r.BypassAuthorities) == 0 &&
		r.Predicate == nil &&
		r.RequiredMask == 0
}

// RuleSet is the operation-name-keyed rule table, populated at build time
// and frozen before first use. Operations without a rule are denied: the
// table is a whitelist.
type RuleSet struct {
	mu     sync.RWMutex
	rules  map[string]Rule
	frozen bool
}

// NewRuleSet creates an empty rule table.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]Rule)}
}

// Register binds a rule to an operation name.
func (rs *RuleSet) Register(operation string, rule Rule) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.frozen {
		return ErrRegistryFrozen
	}
	if operation == "" {
		return errors.New("operation name cannot be empty")
	}
	if rule.empty() {
		return fmt.Errorf("rule for %q has no authorization layer", operation)
	}
	if _, exists := rs.rules[operation]; exists {
		return fmt.Errorf("rule already registered for operation: %s", operation)
	}
	rs.rules[operation] = rule
	return nil
}

// Rule returns the rule for an operation.
func (rs *RuleSet) Rule(operation string) (Rule, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	rule, ok := rs.rules[operation]
	return rule, ok
}

// Freeze prevents further registrations.
func (rs *RuleSet) Freeze() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.frozen = true
}

// Validate checks every rule's predicate expression against the predicate
// registry. Called at build so unknown predicate names fail startup.
func (rs *RuleSet) Validate(reg *Registry) error {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for op, rule := range rs.rules {
		if err := reg.Validate(rule.Predicate); err != nil {
			return fmt.Errorf("operation %q: %w", op, err)
		}
	}
	return nil
}

// Count returns the number of registered rules.
func (rs *RuleSet) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.rules)
}
