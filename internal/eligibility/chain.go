package eligibility

// Chain is an explicitly constructed, ordered list of gates.  Gates
// run in slice order and the first definitive decision wins; when no
// gate has an opinion the outcome is Allowed.
type Chain struct {
    gates []Gate
}

// NewChain builds a chain from the given gates.  Order is significant.
func NewChain(gates ...Gate) *Chain {
    return &Chain{gates: gates}
}

// DefaultChain returns the production gate order.  Privileged access
// runs first so owners and staff are never turned away by later gates.
func DefaultChain() *Chain {
    return NewChain(
        PrivilegedAccessGate{},
        EventStatusGate{},
        RSVPDeadlineGate{},
        InvitationGate{},
        MembershipGate{},
        QuestionnaireGate{},
        AvailabilityGate{},
        SalesWindowGate{},
    )
}

// Decide evaluates the chain against the snapshot.  When bypass is
// true the chain is skipped entirely and the outcome is Allowed;
// callers must restrict who may set the flag.
func (c *Chain) Decide(s *Snapshot, bypass bool) Decision {
    if bypass {
        return Allow()
    }
    for _, g := range c.gates {
        if d, ok := g.Evaluate(s); ok {
            return d
        }
    }
    return Allow()
}
