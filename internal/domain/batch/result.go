package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the engine outcome of one synced document.
type Result struct {
	id     string
	bucket string
	op     Op
	status ItemStatus
	err    error
}

// NewOK creates a successful item result.
func NewOK(id, bucket string, op Op) Result {
	return Result{id: id, bucket: bucket, op: op, status: StatusOK}
}

// NewError creates a rejected item result.
func NewError(id, bucket string, op Op, err error) Result {
	return Result{id: id, bucket: bucket, op: op, status: StatusError, err: err}
}

// ID returns the document identifier.
func (r Result) ID() string { return r.id }

// Bucket returns the bucket the document was synced to.
func (r Result) Bucket() string { return r.bucket }

// Op returns the sync operation of the item.
func (r Result) Op() Op { return r.op }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the engine rejection, if any.
func (r Result) Err() error { return r.err }
