package invoice

import (
	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// Module provides the file backed invoice renderer.
var Module = fx.Provide(
	func(cfg *config.Config) *FileRenderer { return NewFileRenderer(cfg.InvoiceDir, cfg.PublicBaseURL) },
	func(r *FileRenderer) usecase.InvoiceRenderer { return r },
)
