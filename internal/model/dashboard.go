// Package model はドメインモデルを定義する。
package model

// BreakSettings は休憩タイマーの設定値を表す。時間はすべて分単位。
type BreakSettings struct {
	StudyBreak             int
	ShortBreak             int
	LongBreak              int
	SessionsUntilLongBreak int
}

// DefaultBreakSettings はダッシュボードに表示するデフォルトの休憩設定を返す。
func DefaultBreakSettings() BreakSettings {
	return BreakSettings{
		StudyBreak:             60,
		ShortBreak:             5,
		LongBreak:              15,
		SessionsUntilLongBreak: 4,
	}
}

// DailyStats は当日のタイマーセッション集計を表す。
type DailyStats struct {
	BreaksCompleted int // short/longセッションの完了数
	WorkMinutes     int // workセッションの合計時間（分）
}

// Dashboard はホーム画面に表示するユーザー情報と統計をまとめたもの。
type Dashboard struct {
	User          *User
	UserNumber    int // 登録順（ID以下のユーザー数）
	TotalUsers    int
	IsAdmin       bool
	BreakSettings BreakSettings
	Today         DailyStats
}
