package state

// StagedRecord is the persisted staged-upgrade slot. At most one exists;
// re-staging overwrites it.
type StagedRecord struct {
	StageID    string
	CodeHash   string
	Blob       []byte
	StagedAtMs int64
}

// CodeRecord is the persisted live contract code. Version starts at zero and
// increments on every committed upgrade.
type CodeRecord struct {
	CodeHash string
	Blob     []byte
	Version  uint64
}
