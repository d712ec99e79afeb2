package postgres

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialIPv4(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	for _, host := range []string{"localhost", "127.0.0.1"} {
		conn, err := dialIPv4(context.Background(), "tcp", net.JoinHostPort(host, port))
		require.NoError(t, err, host)
		addr := conn.RemoteAddr().(*net.TCPAddr)
		assert.NotNil(t, addr.IP.To4(), host)
		conn.Close()
	}

	_, err = dialIPv4(context.Background(), "tcp", "sin-puerto")
	assert.Error(t, err)
}
