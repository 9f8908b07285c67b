// Package model はドメインモデルを定義する。
package model

import "time"

// 既知のセッション種別。SessionTypeは列挙に制限せず任意の文字列を受け付ける。
const (
	SessionTypeWork   = "work"
	SessionTypeShort  = "short"
	SessionTypeLong   = "long"
	SessionTypeCustom = "custom"
)

// TimerSession はユーザーが完了したタイマーセッション（作業・休憩）の記録を表す。
type TimerSession struct {
	ID          int64
	UserID      int64
	SessionType string
	Duration    int // 分
	CompletedAt time.Time
}
