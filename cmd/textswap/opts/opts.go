package opts

import (
	"github.com/walteh/textswap/pkg/config"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/log"
)

type RootOpts struct {
	Store    *config.Store
	Console  *log.Logger
	Notifier feedback.Notifier
}
