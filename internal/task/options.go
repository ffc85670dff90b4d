package task

// CommonOptions holds the flags shared by every counting task driver
// (topk, botk, unique, count, search, stats): the corpus path
// arguments plus the counting-table and worker-pool parameters carried
// over from config.Global.
type CommonOptions struct {
	Paths      []string
	N          int
	K          int
	Size       string
	Hashes     int
	Seed       *uint64
	Workers    int
	QueueDepth int
	FileLimit  int
	Limit      int // per-file record cap; negative means unbounded
	DedupLines bool
	PKeep      float64
	Threshold  uint64
	Out        string
	Force      bool

	VocabPath string // non-empty selects a pretrained tokenizer
}
