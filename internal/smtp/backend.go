package smtp

import (
	"context"
	"errors"
	"io"
	"mime"
	"strings"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"honeypoty/backend/internal/config"
	"honeypoty/backend/internal/domain"
	"honeypoty/backend/internal/service"
)

// Backend 实现 go-smtp 的 Backend 接口。
//
// 只接收发往 AllowedDomains 的邮件，不做任何转发；
// 任意本地部分都会被接受，首封邮件到达时自动创建对应空间。
type Backend struct {
	emails          *service.EmailService
	allowedDomains  map[string]struct{}
	maxMessageBytes int64
	saveTimeout     time.Duration
	logger          *zap.Logger
}

// NewBackend 创建 SMTP Backend。
func NewBackend(emails *service.EmailService, cfg config.SMTPConfig, logger *zap.Logger) *Backend {
	domains := make(map[string]struct{}, len(cfg.AllowedDomains))
	for _, d := range cfg.AllowedDomains {
		domains[strings.ToLower(d)] = struct{}{}
	}

	maxBytes := cfg.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	return &Backend{
		emails:          emails,
		allowedDomains:  domains,
		maxMessageBytes: maxBytes,
		saveTimeout:     30 * time.Second,
		logger:          logger,
	}
}

// NewServer 根据配置创建 SMTP 服务器
func NewServer(be *Backend, cfg config.SMTPConfig) *gosmtp.Server {
	server := gosmtp.NewServer(be)
	server.Addr = cfg.BindAddr
	server.Domain = cfg.Domain
	server.ReadTimeout = 10 * time.Second
	server.WriteTimeout = 10 * time.Second
	server.MaxMessageBytes = be.maxMessageBytes
	server.MaxRecipients = 50
	return server
}

// NewSession 创建新的 SMTP 会话。
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	log := b.logger.With(zap.String("session_id", uuid.NewString()))
	if c != nil && c.Conn() != nil {
		log = log.With(zap.String("remote_addr", c.Conn().RemoteAddr().String()))
	}
	return &session{backend: b, log: log}, nil
}

type session struct {
	backend    *Backend
	log        *zap.Logger
	from       string
	recipients []string
}

// Mail 处理 MAIL 命令，空的退信地址也接受；发件人原样保存，只去掉路径的尖括号
func (s *session) Mail(from string, _ *gosmtp.MailOptions) error {
	from = strings.TrimSpace(from)
	if strings.HasPrefix(from, "<") && strings.HasSuffix(from, ">") {
		from = strings.TrimSpace(from[1 : len(from)-1])
	}
	s.from = from
	return nil
}

// Rcpt 处理 RCPT 命令。
//
// 域名不在允许列表中的收件人一律返回 550，防止被当作开放中继。
func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	addr := domain.NormalizeAddress(to)

	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return &gosmtp.SMTPError{
			Code:         501,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 3},
			Message:      "invalid recipient address",
		}
	}

	if _, ok := s.backend.allowedDomains[addr[at+1:]]; !ok {
		s.log.Warn("relay attempt rejected", zap.String("recipient", addr))
		return &gosmtp.SMTPError{
			Code:         550,
			EnhancedCode: gosmtp.EnhancedCode{5, 7, 1},
			Message:      "relay access denied - domain not managed by this server",
		}
	}

	s.recipients = append(s.recipients, addr)
	return nil
}

// Data 解析邮件内容并为每个收件人保存一份。
func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(r, s.backend.maxMessageBytes))
	if err != nil {
		return err
	}

	parsed, err := ParseEmail(raw)
	if err != nil {
		s.log.Warn("unparseable message stored raw", zap.Error(err))
		parsed = &ParsedEmail{Text: string(raw)}
	}

	sender := s.from
	if sender == "" {
		sender = parsed.FromAddress()
	}
	if sender == "" {
		return &gosmtp.SMTPError{
			Code:         550,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 7},
			Message:      "sender address required",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.backend.saveTimeout)
	defer cancel()

	var (
		stored  int
		failed  []string
		lastErr error
	)
	for _, rcpt := range s.recipients {
		_, err := s.backend.emails.Save(ctx, service.SaveEmailInput{
			Sender:    sender,
			Recipient: rcpt,
			Subject:   parsed.Subject,
			Body:      parsed.Body(),
			Source:    service.SourceSMTP,
		})
		if err != nil {
			s.log.Error("failed to save email",
				zap.String("sender", sender),
				zap.String("recipient", rcpt),
				zap.Error(err),
			)
			failed = append(failed, rcpt)
			lastErr = err
			continue
		}
		stored++
	}

	// 已有收件人写入成功时不能让对方重试整封邮件，否则这些收件人会收到重复记录
	if stored == 0 && lastErr != nil {
		if errors.Is(lastErr, service.ErrSenderRequired) || errors.Is(lastErr, service.ErrRecipientRequired) {
			return &gosmtp.SMTPError{
				Code:         550,
				EnhancedCode: gosmtp.EnhancedCode{5, 1, 0},
				Message:      "invalid envelope",
			}
		}
		return &gosmtp.SMTPError{
			Code:         451,
			EnhancedCode: gosmtp.EnhancedCode{4, 3, 0},
			Message:      "temporary failure, try again later",
		}
	}
	if len(failed) > 0 {
		s.log.Warn("message partially stored",
			zap.String("sender", sender),
			zap.Int("stored", stored),
			zap.Strings("failed_recipients", failed),
		)
	}

	s.log.Info("message accepted",
		zap.String("sender", sender),
		zap.Strings("recipients", s.recipients),
		zap.Int("size", len(raw)),
		zap.Int("attachments", len(parsed.Attachments)),
	)
	return nil
}

// Reset 重置状态。
func (s *session) Reset() {
	s.from = ""
	s.recipients = nil
}

// Logout 会话结束。
func (s *session) Logout() error {
	return nil
}

func decodeHeader(value string) string {
	if value == "" {
		return value
	}
	decoder := &mime.WordDecoder{CharsetReader: charsetReader}
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
