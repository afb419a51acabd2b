package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware.
// It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot commands,
// each configured with the appropriate handler and middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/profile"] = command("profile", NewProfileHandler(deps))
	handlers["/top"] = command("top", NewTopHandler(deps))
	handlers["/crime"] = command("crime", NewCrimeHandler(deps))
	handlers["/attack"] = command("attack", NewAttackHandler(deps))
	handlers["/casino"] = command("casino", NewCasinoHandler(deps))
	handlers["/summary"] = command("summary", NewSummaryHandler(deps))
	handlers["/roast"] = command("roast", NewRoastHandler(deps))

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}
	handlers["/rebuild"] = command("rebuild", NewRebuildHandler(deps), adminMiddleware...)

	return handlers
}
