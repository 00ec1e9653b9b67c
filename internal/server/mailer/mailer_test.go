package mailer_test

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabrieldeam/sysane/internal/server/mailer"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// fakeSMTP — минимальный SMTP сервер: AUTH PLAIN без TLS (клиент разрешает это для 127.0.0.1).
type fakeSMTP struct {
	ln         net.Listener
	rejectRcpt bool

	mu     sync.Mutex
	cmds   []string
	data   string
	authed bool
}

func startFakeSMTP(t *testing.T, rejectRcpt bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{ln: ln, rejectRcpt: rejectRcpt}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) serve(c net.Conn) {
	defer c.Close()
	tp := textproto.NewConn(c)

	_ = tp.PrintfLine("220 fake ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.cmds = append(s.cmds, line)
		s.mu.Unlock()

		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			_ = tp.PrintfLine("250-fake")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case strings.HasPrefix(cmd, "AUTH PLAIN"):
			s.mu.Lock()
			s.authed = true
			s.mu.Unlock()
			_ = tp.PrintfLine("235 ok")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			_ = tp.PrintfLine("250 ok")
		case strings.HasPrefix(cmd, "RCPT TO"):
			if s.rejectRcpt {
				_ = tp.PrintfLine("550 no such user")
				continue
			}
			_ = tp.PrintfLine("250 ok")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 go ahead")
			b, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = string(b)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

func (s *fakeSMTP) snapshot() (cmds []string, data string, authed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cmds...), s.data, s.authed
}

func newMailer(t *testing.T, port int, username string) *mailer.SMTPMailer {
	t.Helper()
	m, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     "127.0.0.1",
		Port:     port,
		Username: username,
		Password: "secret",
		From:     "no-reply@sysane.com",
		Timeout:  5 * time.Second,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	return m
}

func TestSend_DeliversRenderedEmail(t *testing.T) {
	srv := startFakeSMTP(t, false)
	m := newMailer(t, srv.port(), "bot@sysane.com")

	link := "https://app.sysane.com/auth/verify-email?token=abc.def.ghi"
	err := m.Send(context.Background(), "ana@x.com", "Ana <script>", link)
	require.NoError(t, err)

	cmds, data, authed := srv.snapshot()
	require.True(t, authed)
	require.Contains(t, cmds, "MAIL FROM:<no-reply@sysane.com>")
	require.Contains(t, cmds, "RCPT TO:<ana@x.com>")

	require.Contains(t, data, "Subject: "+mailer.Subject)
	require.Contains(t, data, "To: ana@x.com")
	require.Contains(t, data, "Content-Type: text/html")
	require.Contains(t, data, link)
	// имя экранируется шаблоном
	require.Contains(t, data, "Ana &lt;script&gt;")
	require.NotContains(t, data, "<script>")
}

// без username письмо уходит без AUTH
func TestSend_NoAuthWithoutUsername(t *testing.T) {
	srv := startFakeSMTP(t, false)
	m := newMailer(t, srv.port(), "")

	require.NoError(t, m.Send(context.Background(), "ana@x.com", "Ana", "https://x"))

	_, _, authed := srv.snapshot()
	require.False(t, authed)
}

func TestSend_RecipientRejected(t *testing.T) {
	srv := startFakeSMTP(t, true)
	m := newMailer(t, srv.port(), "bot@sysane.com")

	err := m.Send(context.Background(), "ghost@x.com", "Ghost", "https://x")
	require.ErrorIs(t, err, serr.ErrNotification)
}

func TestSend_ServerUnavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	m := newMailer(t, port, "bot@sysane.com")

	err = m.Send(context.Background(), "ana@x.com", "Ana", "https://x")
	require.ErrorIs(t, err, serr.ErrNotification)
}

// STARTTLS не поддерживается сервером — ошибка отправки, а не письмо открытым текстом
func TestSend_StartTLSRequired(t *testing.T) {
	srv := startFakeSMTP(t, false)
	m, err := mailer.NewSMTPMailer(mailer.Config{
		Host:   "127.0.0.1",
		Port:   srv.port(),
		From:   "no-reply@sysane.com",
		UseTLS: true,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	err = m.Send(context.Background(), "ana@x.com", "Ana", "https://x")
	require.ErrorIs(t, err, serr.ErrNotification)

	_, data, _ := srv.snapshot()
	require.Empty(t, data)
}
