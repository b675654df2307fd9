// Package client implements the TCP client side of the wire protocol: a
// fresh connection per request.
package client

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ignitekv/ignitekv/internal/protocol"
)

// ErrKeyNotFound is returned by Remove when the server reports the key
// had no value, surfaced distinctly so CLI callers can choose a
// different exit code for it.
var ErrKeyNotFound = fmt.Errorf("key not found")

// Client sends requests to an ignitekv server.
type Client struct {
	addr    string
	timeout time.Duration
}

// New builds a Client that dials addr for each request.
func New(addr string) *Client {
	return &Client{addr: addr, timeout: 10 * time.Second}
}

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	reply, err := c.roundTrip(protocol.Command{Kind: protocol.KindSet, Key: key, Value: value})
	if err != nil {
		return err
	}
	return replyToError(reply)
}

// Get retrieves the value for key, returning found=false on a miss.
func (c *Client) Get(key string) (string, bool, error) {
	reply, err := c.roundTrip(protocol.Command{Kind: protocol.KindGet, Key: key})
	if err != nil {
		return "", false, err
	}
	if reply.Kind == protocol.ReplyNull {
		return "", false, nil
	}
	if reply.Kind == protocol.ReplyError {
		return "", false, parseServerError(reply.Value)
	}
	return reply.Value, true, nil
}

// Remove deletes key, returning ErrKeyNotFound if it had no value.
func (c *Client) Remove(key string) error {
	reply, err := c.roundTrip(protocol.Command{Kind: protocol.KindRemove, Key: key})
	if err != nil {
		return err
	}
	return replyToError(reply)
}

func (c *Client) roundTrip(cmd protocol.Command) (protocol.Reply, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return protocol.Reply{}, fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write(protocol.EncodeRequest(cmd)); err != nil {
		return protocol.Reply{}, fmt.Errorf("failed to send request: %w", err)
	}

	reply, err := protocol.ReadReply(bufio.NewReader(conn))
	if err != nil {
		return protocol.Reply{}, fmt.Errorf("failed to read reply: %w", err)
	}
	return reply, nil
}

func replyToError(reply protocol.Reply) error {
	if reply.Kind == protocol.ReplyError {
		return parseServerError(reply.Value)
	}
	return nil
}

// parseServerError turns a RESP-2 error message of the form
// "ERR <CODE> <message>" (see internal/server's errorReply) back into a
// typed sentinel where one exists, or a plain error otherwise.
func parseServerError(message string) error {
	if strings.Contains(message, "KEY_NOT_FOUND") {
		return ErrKeyNotFound
	}
	return fmt.Errorf("%s", message)
}
