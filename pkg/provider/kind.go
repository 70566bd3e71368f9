package provider

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform lower -output kind.gen.go

// Kind identifies an upstream identity provider.
type Kind int

const (
	KindGithub Kind = iota
	KindQQ
)
