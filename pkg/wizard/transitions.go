package wizard

type Step int

const (
	StepClosed Step = iota
	StepSelectStrategy
	StepSelectExchange
	StepEnterCredentials
	StepSuccess
)

var stepNames = map[Step]string{
	StepClosed:           "closed",
	StepSelectStrategy:   "select_strategy",
	StepSelectExchange:   "select_exchange",
	StepEnterCredentials: "enter_credentials",
	StepSuccess:          "success",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ValidTransitions lists the steps reachable from each step. Reopening
// (back to strategy selection) and closing are allowed from everywhere.
var ValidTransitions = map[Step][]Step{
	StepClosed:           {StepSelectStrategy},
	StepSelectStrategy:   {StepSelectExchange, StepSelectStrategy, StepClosed},
	StepSelectExchange:   {StepEnterCredentials, StepSelectStrategy, StepClosed},
	StepEnterCredentials: {StepSuccess, StepSelectStrategy, StepClosed},
	StepSuccess:          {StepSelectStrategy, StepClosed},
}

func CanTransition(from, to Step) bool {
	for _, s := range ValidTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
