package api

// apiError is the structured error envelope returned on failures.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type solveRequest struct {
	Target    int     `json:"target,omitempty"`
	Step      int     `json:"step,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	MaxSweeps int     `json:"max_sweeps,omitempty"`
	Workers   int     `json:"workers,omitempty"`
}

type decideRequest struct {
	DiceLeft int `json:"dice_left"`
	Banked   int `json:"banked"`
	Total    int `json:"total"`
}

type decideResponse struct {
	Action string  `json:"action"`
	Value  float64 `json:"value"`
}

// strategySpec names a strategy for simulation. Kind is one of
// "threshold", "random" or "optimal".
type strategySpec struct {
	Kind     string `json:"kind"`
	MinBank  int    `json:"min_bank,omitempty"`
	RollWith int    `json:"roll_with,omitempty"`
}

type simulateRequest struct {
	PolicyID  string       `json:"policy_id,omitempty"`
	Strategy1 strategySpec `json:"strategy1"`
	Strategy2 strategySpec `json:"strategy2"`
	Target    int          `json:"target,omitempty"`
	Seed      uint64       `json:"seed,omitempty"`
	Games     int          `json:"games,omitempty"`
}
