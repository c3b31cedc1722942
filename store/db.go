package store

import "time"

// DB persists solved policies and simulation runs.
type DB interface {
	Close() error
	Migrate() error
	SavePolicy(rec *PolicyRecord) error
	GetPolicy(id string) (*PolicyRecord, error)
	ListPolicies(limit int) ([]PolicyRecord, error)
	SaveRun(run *SimRun) error
	GetRun(id string) (*SimRun, error)
	ListRuns(limit int) ([]SimRun, error)
}

// PolicyRecord is a solved policy plus the solver configuration that
// produced it. The policy itself is stored as its JSON encoding, which
// round-trips exactly.
type PolicyRecord struct {
	ID         string    `json:"id" db:"id"`
	Target     int       `json:"target" db:"target"`
	Step       int       `json:"step" db:"step"`
	Tolerance  float64   `json:"tolerance" db:"tolerance"`
	Sweeps     int       `json:"sweeps" db:"sweeps"`
	StartValue float64   `json:"start_value" db:"start_value"`
	PolicyJSON []byte    `json:"-" db:"policy_json"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SimRun is the summary of one batch of simulated games between two
// strategies.
type SimRun struct {
	ID        string    `json:"id" db:"id"`
	PolicyID  string    `json:"policy_id,omitempty" db:"policy_id"`
	Strategy1 string    `json:"strategy1" db:"strategy1"`
	Strategy2 string    `json:"strategy2" db:"strategy2"`
	Target    int       `json:"target" db:"target"`
	Seed      uint64    `json:"seed" db:"seed"`
	Games     int       `json:"games" db:"games"`
	Wins1     int       `json:"wins1" db:"wins1"`
	Wins2     int       `json:"wins2" db:"wins2"`
	AvgTurns  float64   `json:"avg_turns" db:"avg_turns"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
