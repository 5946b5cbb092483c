package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// SourceInterface is a key-value store whose whole contents can be captured
// and replaced.
type SourceInterface interface {
	Snapshot() map[string][]byte
	Restore(data map[string][]byte)
	TakeDirty() bool
	MarkDirty()
}
