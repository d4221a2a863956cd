package service

import (
	"errors"
	"fmt"
)

// SkipReason 候选事件被跳过的原因
type SkipReason string

const (
	SkipNoTitle         SkipReason = "no_title"
	SkipCategoryHeading SkipReason = "category_heading"
	SkipNonEnglish      SkipReason = "non_english"
	SkipNoStartDate     SkipReason = "no_start_date"
	SkipCrossVenue      SkipReason = "cross_venue"
)

// ValidationError 候选事件不合格（无标题、栏目标题、非英文、无法确定日期），计入 skipped
type ValidationError struct {
	Reason SkipReason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("skipped: %s", e.Reason)
	}
	return fmt.Sprintf("skipped: %s (%s)", e.Reason, e.Detail)
}

// AffinityMismatchError 来源链接属于其他专属场馆，计入 skipped
type AffinityMismatchError struct {
	Domain       string
	OwnerVenue   string
	CurrentVenue string
}

func (e *AffinityMismatchError) Error() string {
	return fmt.Sprintf("skipped: %s (域名 %s 属于 %q，当前场馆 %q)", SkipCrossVenue, e.Domain, e.OwnerVenue, e.CurrentVenue)
}

// PersistenceError 匹配/写库失败，当前候选事件回滚并计入 errors
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s失败: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrSyncInProgress 同一场馆已有对账在本进程内执行
var ErrSyncInProgress = errors.New("该场馆已有同步任务在执行")

// skipReasonOf 判断错误是否属于"跳过"，返回对应原因
func skipReasonOf(err error) (SkipReason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	var ae *AffinityMismatchError
	if errors.As(err, &ae) {
		return SkipCrossVenue, true
	}
	return "", false
}
