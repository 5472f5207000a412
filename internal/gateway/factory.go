package gateway

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/config"
	"github.com/agenthands/annex/internal/driver"
)

// New builds the gateway selected by cfg.Gateway.Mode. The returned close function
// releases any database connection and is never nil.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Gateway, func(), error) {
	mode := strings.ToLower(cfg.Gateway.Mode)

	switch mode {
	case config.GatewayModeHTTP:
		return NewHTTPGateway(cfg.Gateway, logger), func() {}, nil

	case config.GatewayModeBolt:
		d, err := driver.NewBoltDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database, logger)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() {
			if err := d.Close(context.Background()); err != nil && logger != nil {
				logger.Warn("failed to close graph driver", zap.Error(err))
			}
		}
		return NewBoltGateway(d, logger), closeFn, nil

	default:
		return nil, func() {}, fmt.Errorf("unsupported gateway mode: %s", mode)
	}
}
