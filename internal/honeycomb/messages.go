package honeycomb

import "time"

// spacesMsg 一次空间列表拉取的结果
type spacesMsg struct {
	spaces []Space
	err    error
}

// emailsMsg 一次邮件列表拉取的结果
type emailsMsg struct {
	address string
	emails  []Email
	err     error
}

// pollTickMsg 轮询定时器触发
type pollTickMsg struct{ Time time.Time }
