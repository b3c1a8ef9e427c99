package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lancekit/lancekit/internal/migration"
	"github.com/lancekit/lancekit/internal/observability"
	"github.com/lancekit/lancekit/internal/server"
	"github.com/lancekit/lancekit/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface plus every domain module it serves
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
