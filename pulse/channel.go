package pulse

// OutputChannel is the observable state of one output. Exclusively owned
// and mutated by the engine; consumers get copies.
type OutputChannel struct {
	ID           int // 1..NumOutputs
	FrequencyHz  int
	OnTimeMicros int
	Level        int // effective duty normalized 0-100
	Enabled      bool
}
