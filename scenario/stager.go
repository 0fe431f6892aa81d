package scenario

import "github.com/AshkanYarmoradi/rehearse"

// Stager stages historical events against one explicit aggregate identity,
// bypassing the When step. It is obtained from Scenario.On and delegates
// all semantics to the scenario's repository and message log.
type Stager struct {
	scenario *Scenario
	id       rehearse.AggregateRootID
}

// Given stages events as prior history of the bound aggregate and purges
// the last-commit slot, exactly like Scenario.Given. It returns the
// scenario for chaining.
func (st *Stager) Given(events ...interface{}) *Scenario {
	st.scenario.t.Helper()
	st.scenario.stage(st.id, events)
	return st.scenario
}
