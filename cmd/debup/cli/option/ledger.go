package option

type Ledger struct {
	Root string `json:"root" yaml:"root" mapstructure:"root"`
}

func DefaultLedger() Ledger {
	return Ledger{
		Root: ".",
	}
}
