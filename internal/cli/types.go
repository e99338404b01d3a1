package cli

type putOptions struct {
	ID   string
	Path string
}

type getOptions struct {
	Output string
	ID     string
}

type hasOptions struct {
	Strict bool
	IDs    []string
}

type copyOptions struct {
	FromBucket string
	IDs        []string
}

type bucketUseOptions struct {
	Create bool
	Name   string
}
