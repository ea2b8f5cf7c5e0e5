package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/medialog/pkg/dispatch"
	"github.com/rubiojr/medialog/pkg/message"
	"github.com/urfave/cli/v3"
)

// WatchCommand creates the watch command
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Read lines from stdin and dispatch each as a log message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Usage: "Severity level for dispatched lines",
				Value: "INFO",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return watchStdin(ctx, c.String("config"), c.String("level"))
		},
	}
}

// watchStdin dispatches one message per stdin line until EOF or a
// termination signal. The configuration file is watched for changes and
// SIGHUP forces a reload, so destinations can be repointed without
// restarting the producer pipeline feeding stdin.
func watchStdin(ctx context.Context, configPath, levelName string) error {
	level, err := message.ParseLevel(levelName)
	if err != nil {
		return err
	}

	d := dispatch.New()
	defer func() {
		if err := d.Factory().Close(); err != nil {
			log.Printf("Warning: failed to close media: %v", err)
		}
	}()

	if err := setDefaultsFromConfig(configPath, d); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()

		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
		}
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				return nil
			}
			d.Dispatch(line, level, nil)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading configuration...")
				if err := setDefaultsFromConfig(configPath, d); err != nil {
					log.Printf("Failed to reload configuration: %v", err)
				} else {
					log.Println("Configuration reloaded successfully")
				}
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				return nil
			}
		case event, ok := <-events:
			if !ok {
				continue
			}
			// React to write, create, rename, and remove events (editors often use atomic writes)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				log.Printf("Config file changed: %s (event: %s), reloading configuration...", event.Name, event.Op.String())

				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Small delay to ensure the new file is fully written
					time.Sleep(200 * time.Millisecond)

					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						log.Printf("Config file was removed and not replaced, skipping reload")
						continue
					}

					// Re-add the config file to watcher in case it was replaced
					if err := watcher.Add(configPath); err != nil {
						log.Printf("Warning: failed to re-add config file to watcher after rename/remove: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}

				if err := setDefaultsFromConfig(configPath, d); err != nil {
					log.Printf("Failed to reload configuration after file change: %v", err)
				} else {
					log.Println("Configuration reloaded successfully after file change")
				}
			}
		case err, ok := <-watchErrs:
			if !ok {
				continue
			}
			log.Printf("Config file watcher error: %v", err)
		}
	}
}
