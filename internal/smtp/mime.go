package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ParsedEmail 表示解析后的邮件内容。
type ParsedEmail struct {
	Subject     string
	From        string
	Text        string
	HTML        string
	Attachments []string // 附件文件名，内容不保存
}

// Body 返回要保存的正文，优先纯文本
func (p *ParsedEmail) Body() string {
	if strings.TrimSpace(p.Text) != "" {
		return p.Text
	}
	return p.HTML
}

// FromAddress 返回 From 头中的邮箱地址
func (p *ParsedEmail) FromAddress() string {
	if p.From == "" {
		return ""
	}
	addr, err := mail.ParseAddress(p.From)
	if err != nil {
		return ""
	}
	return addr.Address
}

// ParseEmail 解析邮件，提取主题、正文和附件名。
func ParseEmail(rawEmail []byte) (*ParsedEmail, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawEmail))
	if err != nil {
		return nil, fmt.Errorf("parse mail: %w", err)
	}

	parsed := &ParsedEmail{
		Subject: decodeHeader(msg.Header.Get("Subject")),
		From:    decodeHeader(msg.Header.Get("From")),
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		// 没有 Content-Type 时按纯文本处理
		body, err := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), "")
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		parsed.Text = body
		return parsed, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("multipart message without boundary")
		}
		if err := parseMultipart(multipart.NewReader(msg.Body, boundary), parsed); err != nil {
			return nil, fmt.Errorf("parse multipart: %w", err)
		}
		return parsed, nil
	}

	body, err := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), params["charset"])
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if mediaType == "text/html" {
		parsed.HTML = body
	} else {
		parsed.Text = body
	}
	return parsed, nil
}

// parseMultipart 递归解析多部分邮件，每种正文只保留第一份。
func parseMultipart(mr *multipart.Reader, parsed *ParsedEmail) error {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = "text/plain"
		}

		if disposition := part.Header.Get("Content-Disposition"); disposition != "" {
			dispType, dispParams, _ := mime.ParseMediaType(disposition)
			if dispType == "attachment" {
				filename := dispParams["filename"]
				if filename == "" {
					filename = params["name"]
				}
				if filename == "" {
					filename = "unnamed"
				}
				parsed.Attachments = append(parsed.Attachments, decodeHeader(filename))
				continue
			}
		}

		if strings.HasPrefix(mediaType, "multipart/") {
			if boundary := params["boundary"]; boundary != "" {
				if err := parseMultipart(multipart.NewReader(part, boundary), parsed); err != nil {
					return err
				}
			}
			continue
		}

		body, err := decodeBody(part, part.Header.Get("Content-Transfer-Encoding"), params["charset"])
		if err != nil {
			continue
		}

		switch mediaType {
		case "text/plain":
			if parsed.Text == "" {
				parsed.Text = body
			}
		case "text/html":
			if parsed.HTML == "" {
				parsed.HTML = body
			}
		}
	}
}

// decodeBody 按传输编码解码，再转换为 UTF-8。
func decodeBody(reader io.Reader, transferEncoding string, charset string) (string, error) {
	var decoded io.Reader
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		decoded = base64.NewDecoder(base64.StdEncoding, reader)
	case "quoted-printable":
		decoded = quotedprintable.NewReader(reader)
	default:
		decoded = reader
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}

	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return string(body), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body), nil
	}
	converted, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return string(body), nil
	}
	return string(converted), nil
}

// charsetReader 供 mime.WordDecoder 解码非 UTF-8 的编码字
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
