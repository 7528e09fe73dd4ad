package option

import (
	"fmt"
	"time"

	"github.com/anchore/clio"
	"github.com/anchore/fangs"

	internalhttp "github.com/anchore/debup/internal/http"
)

var _ fangs.PostLoader = (*Retry)(nil)

type Retry struct {
	Max   int    `json:"max" yaml:"max" mapstructure:"max"`
	Delay string `json:"delay" yaml:"delay" mapstructure:"delay"`

	delay time.Duration
}

func DefaultRetry() Retry {
	p := internalhttp.DefaultRetryPolicy()
	return Retry{
		Max:   p.Max,
		Delay: p.Delay.String(),
		delay: p.Delay,
	}
}

func (o *Retry) AddFlags(flags clio.FlagSet) {
	flags.IntVarP(&o.Max, "retries", "", "number of times a failed request is retried")
	flags.StringVarP(&o.Delay, "retry-delay", "", "fixed delay between retries (e.g. 2s)")
}

func (o *Retry) PostLoad() error {
	if o.Max < 0 {
		return fmt.Errorf("retry max must not be negative: %d", o.Max)
	}
	if o.Delay == "" {
		o.delay = 0
		return nil
	}
	d, err := time.ParseDuration(o.Delay)
	if err != nil {
		return fmt.Errorf("invalid retry delay %q: %w", o.Delay, err)
	}
	if d < 0 {
		return fmt.Errorf("retry delay must not be negative: %s", o.Delay)
	}
	o.delay = d
	return nil
}

func (o Retry) Policy() internalhttp.RetryPolicy {
	return internalhttp.RetryPolicy{
		Max:   o.Max,
		Delay: o.delay,
	}
}
