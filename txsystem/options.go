package txsystem

import (
	"crypto"

	"github.com/alphabill-org/digitalcash/internal/logger"
	"github.com/alphabill-org/digitalcash/txsystem/cash"
)

type Options struct {
	hashAlgorithm crypto.Hash
	state         *cash.State
	log           logger.Logger
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		hashAlgorithm: crypto.SHA256,
		state:         cash.NewState(),
		log:           log,
	}
}

// WithState sets the genesis state of the transaction system.
func WithState(s *cash.State) Option {
	return func(o *Options) {
		o.state = s
	}
}

func WithHashAlgorithm(hashAlgorithm crypto.Hash) Option {
	return func(o *Options) {
		o.hashAlgorithm = hashAlgorithm
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		o.log = l
	}
}
