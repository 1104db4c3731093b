package tests

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	natsclient "github.com/hadi77ir/go-natsclient"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startNATS(ctx context.Context, cmd ...string) (testcontainers.Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        "docker.io/nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          cmd,
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func containerAddress(t *testing.T, ctx context.Context, container testcontainers.Container, port string) (string, string) {
	t.Helper()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container.Host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("container.MappedPort: %v", err)
	}
	return host, mapped.Port()
}

// handshake dials the server through the configured data port, reads the
// INFO line, sends CONNECT with the options payload followed by PING, and
// returns the server's next protocol line.
func handshake(t *testing.T, ctx context.Context, opts *natsclient.Options) string {
	t.Helper()

	server := opts.Servers()[0]
	port := opts.BuildDataPort()
	if err := port.Connect(ctx, server, opts.ConnectionTimeout()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer port.Close() // nolint:errcheck

	reader := bufio.NewReader(port)
	info, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read INFO: %v", err)
	}
	if !strings.HasPrefix(info, "INFO ") {
		t.Fatalf("expected INFO line, got %q", info)
	}

	payload := opts.ConnectPayload(server, true, nil)
	if _, err := fmt.Fprintf(port, "CONNECT %s\r\nPING\r\n", payload); err != nil {
		t.Fatalf("write CONNECT: %v", err)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return strings.TrimSpace(line)
}

func TestHandshakeAgainstLiveServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := startNATS(ctx)
	if err != nil {
		t.Fatalf("startNATS: %v", err)
	}
	defer func() {
		_ = container.Terminate(context.Background())
	}()

	host, port := containerAddress(t, ctx, container, "4222/tcp")

	opts, err := natsclient.NewBuilder().
		Server(fmt.Sprintf("%s:%s", host, port)).
		ConnectionName("handshake-test").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	line := handshake(t, ctx, opts)
	if line != "PONG" {
		t.Fatalf("expected PONG after CONNECT, got %q", line)
	}
}

func TestHandshakeVerboseModeAcknowledged(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := startNATS(ctx)
	if err != nil {
		t.Fatalf("startNATS: %v", err)
	}
	defer func() {
		_ = container.Terminate(context.Background())
	}()

	host, port := containerAddress(t, ctx, container, "4222/tcp")

	opts, err := natsclient.NewBuilder().
		Server(fmt.Sprintf("%s:%s", host, port)).
		Verbose().
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// In verbose mode the server acknowledges CONNECT with +OK before
	// answering the PING.
	line := handshake(t, ctx, opts)
	if line != "+OK" {
		t.Fatalf("expected +OK after verbose CONNECT, got %q", line)
	}
}

func TestHandshakeWithTokenAuth(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := startNATS(ctx, "--auth", "s3cr3t")
	if err != nil {
		t.Fatalf("startNATS: %v", err)
	}
	defer func() {
		_ = container.Terminate(context.Background())
	}()

	host, port := containerAddress(t, ctx, container, "4222/tcp")

	opts, err := natsclient.NewBuilder().
		Server(fmt.Sprintf("%s:%s", host, port)).
		Token("s3cr3t").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	line := handshake(t, ctx, opts)
	if line != "PONG" {
		t.Fatalf("expected PONG with valid token, got %q", line)
	}
}
