package mockserver

import (
	"strings"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

// Replies sent by the mock server.
const (
	ReplySuccess = domain.AuthSuccessMarker
	ReplyFail    = "FAIL"
)

const loginPrefix = "Login "

// Command and login result labels.
const (
	resultOK          = "ok"
	resultFail        = "fail"
	resultDenied      = "denied"
	resultRateLimited = "rate_limited"
	verbUnknown       = "unknown"
)

// CommandHandler answers RCON commands for one server.
type CommandHandler struct {
	password  string
	responses *Responses
	logger    logger.Logger
	rec       Recorder
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(password string, responses *Responses, log logger.Logger, rec Recorder) *CommandHandler {
	if log == nil {
		log = logger.Default()
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	if responses == nil {
		responses = DefaultResponses()
	}
	return &CommandHandler{
		password:  password,
		responses: responses,
		logger:    log,
		rec:       rec,
	}
}

// Handle returns the reply for one decoded command.
//
// Login is always accepted as a command. Everything else requires a prior
// successful login and is subject to the connection's rate limiter.
func (h *CommandHandler) Handle(c *Conn, cmd string) string {
	c.commands.Add(1)

	if isLogin(cmd) {
		return h.handleLogin(c, cmd)
	}

	if !c.Authenticated() {
		h.rec.RecordServerCommand(verbUnknown, resultDenied)
		h.logger.Debug("command before login", "conn_id", c.id)
		return ReplyFail
	}

	if c.limiter != nil && !c.limiter.Allow() {
		h.rec.IncServerRateLimited()
		h.rec.RecordServerCommand(verbUnknown, resultRateLimited)
		h.logger.Warn("rate limit exceeded", "conn_id", c.id)
		return ReplyFail
	}

	reply, verb, ok := h.responses.Lookup(cmd)
	if !ok {
		h.rec.RecordServerCommand(verbUnknown, resultFail)
		h.logger.Debug("unknown command", "conn_id", c.id, "command", cmd)
		return ReplyFail
	}

	h.rec.RecordServerCommand(verb, resultOK)
	h.logger.Debug("command answered", "conn_id", c.id, "verb", verb, "reply_bytes", len(reply))
	return reply
}

func (h *CommandHandler) handleLogin(c *Conn, cmd string) string {
	password := cmd[len(loginPrefix):]
	if h.password == "" || password != h.password {
		h.rec.RecordServerLogin(resultFail)
		h.logger.Info("login rejected", "conn_id", c.id)
		return ReplyFail
	}

	c.authed.Store(true)
	h.rec.RecordServerLogin(resultOK)
	h.logger.Info("login accepted", "conn_id", c.id)
	return ReplySuccess
}

func isLogin(cmd string) bool {
	return strings.HasPrefix(cmd, loginPrefix)
}
