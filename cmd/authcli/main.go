// File: cmd/authcli/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup messages before zap is active
	"os"
	"os/signal"
	"syscall"
	"time"

	"puck_buddy_auth/internal/auth"
	"puck_buddy_auth/internal/common"
	"puck_buddy_auth/internal/config"
)

const usage = `Usage: authcli <command>

Commands:
  status   Restore the session and print the authentication state
  signin   Sign in with Google (fails if no account exists)
  signup   Sign up with Google (fails if an account already exists)
  signout  Sign out and clear the local session
  refresh  Re-fetch the session profile from the profile store
  serve    Run the cache sweep job and the debug HTTP surface
`

func main() {
	cmd := "status"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		runServe()
	case "status", "signin", "signup", "signout", "refresh":
		runOnce(cmd, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

func runOnce(cmd string, args []string) {
	flags := flag.NewFlagSet(cmd, flag.ExitOnError)
	timeout := flags.Duration("timeout", 5*time.Minute, "Overall operation timeout")
	flags.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	coordinator := server.Coordinator()
	if err := coordinator.Initialize(ctx); err != nil {
		log.Fatalf("FATAL: Session restore failed: %v", err)
	}

	switch cmd {
	case "status":
		printState(coordinator.State())
	case "signin":
		finishAuth(coordinator, coordinator.SignInWithGoogle(ctx))
	case "signup":
		finishAuth(coordinator, coordinator.SignUpWithGoogle(ctx))
	case "signout":
		coordinator.SignOut(ctx)
		fmt.Println("Signed out.")
	case "refresh":
		coordinator.RefreshUser(ctx)
		printState(coordinator.State())
	}
}

func finishAuth(coordinator *auth.Coordinator, result auth.Result) {
	if !result.Success {
		fmt.Fprintln(os.Stderr, common.UserMessage(result.Err))
		os.Exit(1)
	}
	fmt.Printf("Welcome, %s!\n", result.Identity.DisplayName)
	printState(coordinator.State())
}

func printState(state auth.State) {
	out := map[string]interface{}{
		"isAuthenticated": state.IsAuthenticated,
		"isLoading":       state.IsLoading,
		"user":            state.User,
	}
	if state.Err != nil {
		out["error"] = common.UserMessage(state.Err)
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("FATAL: Failed to encode state: %v", err)
	}
	fmt.Println(string(encoded))
}

func runServe() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
