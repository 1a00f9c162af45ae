// Package service provides the business logic layer for the canvas Snake game.
//
// The service package implements:
//   - Multi-session game management
//   - Game control (start, pause, reset, restart, turn, speed, difficulty)
//   - Raw input routing for keys, buttons, and swipes
//   - Configuration listing and loading
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game sessions. Each session owns a controller on its own goroutine, and
// every operation here runs on that goroutine through Session.Do, so ticks
// and requests never race.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "easy")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.Start(ctx, info.ID)
//	gameService.Turn(ctx, info.ID, "left")
package service
