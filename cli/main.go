// Package main provides the operator CLI for the fleet console WebSocket server.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

var (
	addr    string
	verbose bool
	linger  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "fleetconsole-cli",
	Short: "Operator console for the fleet command server",
	Long: `Connects to the fleet console WebSocket stream, shows every console event
and sends each line typed on stdin as a command.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var sendCmd = &cobra.Command{
	Use:   "send [command text]",
	Short: "Send a single command and print its events",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSend,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "ws://localhost:8090/ws", "WebSocket server address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show highlight and focus signals")
	sendCmd.Flags().DurationVar(&linger, "linger", 6*time.Second, "how long to keep printing response units after the command")
	rootCmd.AddCommand(sendCmd)
}

func connect() (*Client, *protocol.HelloAckMessage, error) {
	client, err := NewClient(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}
	ack, err := client.SendHello()
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, ack, nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	client, ack, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, RenderWelcome(ack))
	fmt.Fprintln(out, "Type a command, or 'quit' to exit.")

	r := Renderer{Verbose: verbose}
	done := make(chan error, 1)
	go func() {
		done <- client.ReadMessages(time.Time{}, func(data []byte) bool {
			if line, ok := r.Render(data); ok {
				fmt.Fprintln(out, line)
			}
			return true
		})
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case err := <-done:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				return nil
			}
			if err := client.SendCommand(line); err != nil {
				return fmt.Errorf("send command: %w", err)
			}
		}
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.SendCommand(strings.Join(args, " ")); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	out := cmd.OutOrStdout()
	r := Renderer{Verbose: verbose}
	var failed error
	err = client.ReadMessages(time.Now().Add(linger), func(data []byte) bool {
		if line, ok := r.Render(data); ok {
			fmt.Fprintln(out, line)
		}
		var m protocol.ErrorMessage
		if json.Unmarshal(data, &m) == nil && m.Type == protocol.TypeError {
			failed = fmt.Errorf("%s: %s", m.Code, m.Message)
			return false
		}
		return true
	})
	if failed != nil {
		return failed
	}
	if err != nil && !isTimeout(err) {
		return err
	}
	return nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
