package main

import (
	"github.com/orin-ai/agentdash/internal/server"
	"github.com/orin-ai/agentdash/internal/util"
	"github.com/orin-ai/agentdash/pkg/logger"
	"github.com/orin-ai/agentdash/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
		JSON:  util.GetEnvString("LOG_FORMAT", "text") == "json",
	})
	logger.Init(consoleLogger)

	server.Init()
}
