package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

func setupTestReservationService() (ReservationService, *repository.Repository) {
	repo := newTestRepository()
	svc := NewReservationService(testBookingConfig(), repo, zap.NewNop())
	return svc, repo
}

// ── Create ──

func TestReservationService_Create_Success(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	result, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer: dto.CustomerPayload{
			Name:  "张三",
			Email: strPtr("zhangsan@example.com"),
		},
		TableIDs: []string{tableID},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("默认状态应为 pending，实际=%s", result.Status)
	}
	if result.DurationMinutes != 90 {
		t.Errorf("未指定时长应使用默认90分钟，实际=%d", result.DurationMinutes)
	}
	if result.EndTime != "19:30" {
		t.Errorf("期望EndTime=19:30，实际=%s", result.EndTime)
	}
	if len(result.Tables) != 1 || result.Tables[0].ID != tableID {
		t.Errorf("桌位分配不符: %+v", result.Tables)
	}
	if result.Customer.Email == nil || *result.Customer.Email != "zhangsan@example.com" {
		t.Errorf("顾客邮箱不符: %+v", result.Customer)
	}
}

func TestReservationService_Create_PlaceholderEmail(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	result, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "李四"},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Fatalf("小型散客无联系方式应允许创建: %v", err)
	}
	if result.Customer.Email == nil {
		t.Fatal("应生成占位邮箱")
	}
	email := *result.Customer.Email
	if !strings.HasPrefix(email, "guest-") || !strings.HasSuffix(email, "@restaurant.local") {
		t.Errorf("占位邮箱格式不符: %s", email)
	}

	// 同名散客应复用同一顾客记录
	second, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-03",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: " 李四 "},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Fatalf("第二次创建应成功: %v", err)
	}
	if second.Customer.ID != result.Customer.ID {
		t.Error("同名散客的占位邮箱应命中同一顾客记录")
	}
}

func TestReservationService_Create_LargePartyNeedsContact(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 4, 10, false)

	_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       6,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "王五"},
		TableIDs:        []string{tableID},
	})
	if !errors.Is(err, ErrContactRequired) {
		t.Errorf("期望 ErrContactRequired，实际: %v", err)
	}

	// 提供电话即可
	_, err = svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       6,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "王五", Phone: strPtr("13800138000")},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Errorf("提供电话的大型订位应成功: %v", err)
	}
}

func TestReservationService_Create_CustomerDedupByEmail(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	first, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "12:00",
		Customer:        dto.CustomerPayload{Name: "张三", Email: strPtr("zhangsan@example.com")},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	second, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-03",
		StartTime:       "12:00",
		Customer:        dto.CustomerPayload{Name: "张三改名了", Email: strPtr("zhangsan@example.com")},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if first.Customer.ID != second.Customer.ID {
		t.Error("同邮箱应复用同一顾客记录")
	}
}

func TestReservationService_Create_TableConflict(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	create := func(start string) error {
		_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
			PartySize:       2,
			ReservationDate: "2026-03-02",
			StartTime:       start,
			Customer:        dto.CustomerPayload{Name: "张三", Email: strPtr("a@example.com")},
			TableIDs:        []string{tableID},
		})
		return err
	}

	if err := create("18:00"); err != nil {
		t.Fatalf("首次预订应成功: %v", err)
	}
	if err := create("19:00"); !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("重叠预订应返回 ErrTableUnavailable，实际: %v", err)
	}
	// 首尾相接允许
	if err := create("19:30"); err != nil {
		t.Errorf("首尾相接的预订应成功: %v", err)
	}
}

func TestReservationService_Create_TableAbsent(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)

	_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "张三", Email: strPtr("a@example.com")},
		TableIDs:        []string{"no-such-table"},
	})
	if !errors.Is(err, ErrReservationTableAbsent) {
		t.Errorf("期望 ErrReservationTableAbsent，实际: %v", err)
	}
}

func TestReservationService_Create_OutsideHours(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "10:00",
		Customer:        dto.CustomerPayload{Name: "张三", Email: strPtr("a@example.com")},
		TableIDs:        []string{tableID},
	})
	if !errors.Is(err, ErrOutsideOperatingHours) {
		t.Errorf("开门前的预订应被拒绝，实际: %v", err)
	}
}

func TestReservationService_Create_SharedCapacity(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "共享长桌", 1, 8, true)

	create := func(party int, email string) error {
		_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
			PartySize:       party,
			ReservationDate: "2026-03-02",
			StartTime:       "18:00",
			Customer:        dto.CustomerPayload{Name: "顾客", Email: strPtr(email)},
			TableIDs:        []string{tableID},
		})
		return err
	}

	if err := create(5, "a@example.com"); err != nil {
		t.Fatalf("首次共享桌预订应成功: %v", err)
	}
	if err := create(3, "b@example.com"); err != nil {
		t.Fatalf("剩余容量足够的并席预订应成功: %v", err)
	}
	if err := create(1, "c@example.com"); !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("超出剩余容量应返回 ErrTableUnavailable，实际: %v", err)
	}
}

func TestReservationService_Create_DuplicateTableIDs(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)

	result, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "张三", Email: strPtr("a@example.com")},
		TableIDs:        []string{tableID, tableID},
	})
	if err != nil {
		t.Fatalf("重复桌位ID应被去重而非报错: %v", err)
	}
	if len(result.Tables) != 1 {
		t.Errorf("去重后应只有1张桌位，实际=%d", len(result.Tables))
	}
}

// ── Update ──

func TestReservationService_Update_NotesOnly(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	result, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{
		Notes: strPtr("靠窗"),
	})
	if err != nil {
		t.Fatalf("仅改备注应成功: %v", err)
	}
	if result.Notes != "靠窗" {
		t.Errorf("备注未更新: %s", result.Notes)
	}
	if result.StartTime != "18:00" {
		t.Errorf("其他字段不应变化: %s", result.StartTime)
	}
}

func TestReservationService_Update_RescheduleKeepsOwnTable(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	// 改到与自身原时段重叠的时间：桌位对自己可用
	result, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{
		StartTime: strPtr("18:30"),
	})
	if err != nil {
		t.Fatalf("改期到与自身重叠的时段应成功: %v", err)
	}
	if result.StartTime != "18:30" {
		t.Errorf("开始时间未更新: %s", result.StartTime)
	}
}

func TestReservationService_Update_RescheduleConflict(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "12:00", 60, 2, model.StatusConfirmed, tableID)
	addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	// 改到他人占用的时段
	_, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{
		StartTime: strPtr("18:30"),
	})
	if !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("改到被他人占用的时段应返回 ErrTableUnavailable，实际: %v", err)
	}
}

func TestReservationService_Update_ChangeTables(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	oldTable := addTable(t, repo, "T1", 2, 4, false)
	newTable := addTable(t, repo, "T2", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, oldTable)

	result, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{
		TableIDs: &[]string{newTable},
	})
	if err != nil {
		t.Fatalf("换桌应成功: %v", err)
	}
	if len(result.Tables) != 1 || result.Tables[0].ID != newTable {
		t.Errorf("桌位应更换为 T2: %+v", result.Tables)
	}
}

func TestReservationService_Update_TimeChangeValidatesHours(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	_, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{
		StartTime: strPtr("23:00"),
	})
	if !errors.Is(err, ErrOutsideOperatingHours) {
		t.Errorf("改期到营业时间外应被拒绝，实际: %v", err)
	}
}

func TestReservationService_Update_NoFields(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	_, err := svc.Update(context.Background(), resID, &dto.UpdateReservationRequest{})
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("期望 ErrNoFieldsToUpdate，实际: %v", err)
	}
}

func TestReservationService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestReservationService()

	_, err := svc.Update(context.Background(), "no-such-id", &dto.UpdateReservationRequest{
		Notes: strPtr("x"),
	})
	if !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("期望 ErrReservationNotFound，实际: %v", err)
	}
}

// ── UpdateStatus / Delete ──

func TestReservationService_UpdateStatus(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusPending, tableID)

	result, err := svc.UpdateStatus(context.Background(), resID, model.StatusSeated)
	if err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if result.Status != model.StatusSeated {
		t.Errorf("状态未更新: %s", result.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), resID, "invalid"); err == nil {
		t.Error("非法状态应返回错误")
	}
	if _, err := svc.UpdateStatus(context.Background(), "no-such-id", model.StatusSeated); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("期望 ErrReservationNotFound，实际: %v", err)
	}
}

func TestReservationService_CancelFreesTable(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	if _, err := svc.UpdateStatus(context.Background(), resID, model.StatusCancelled); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}

	// 取消后同一时段可再次预订
	_, err := svc.Create(context.Background(), &dto.CreateReservationRequest{
		PartySize:       2,
		ReservationDate: "2026-03-02",
		StartTime:       "18:00",
		Customer:        dto.CustomerPayload{Name: "新顾客", Email: strPtr("new@example.com")},
		TableIDs:        []string{tableID},
	})
	if err != nil {
		t.Errorf("取消后的桌位应立即可用: %v", err)
	}
}

func TestReservationService_Delete(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	tableID := addTable(t, repo, "T1", 2, 4, false)
	resID := addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, tableID)

	if err := svc.Delete(context.Background(), resID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), resID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("删除后应查不到，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), resID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("重复删除应返回 ErrReservationNotFound，实际: %v", err)
	}
}

// ── List ──

func TestReservationService_List_Filters(t *testing.T) {
	svc, repo := setupTestReservationService()
	openAllWeek(t, repo)
	t1 := addTable(t, repo, "T1", 2, 4, false)
	t2 := addTable(t, repo, "T2", 2, 4, false)
	addReservation(t, repo, "2026-03-02", "12:00", 60, 2, model.StatusConfirmed, t1)
	addReservation(t, repo, "2026-03-02", "18:00", 60, 2, model.StatusPending, t2)
	addReservation(t, repo, "2026-03-05", "18:00", 60, 2, model.StatusConfirmed, t1)

	// 日期范围过滤
	result, total, err := svc.List(context.Background(), &dto.ReservationListRequest{
		DateFrom: strPtr("2026-03-02"),
		DateTo:   strPtr("2026-03-02"),
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(result) != 2 {
		t.Errorf("期望2条记录，实际 total=%d len=%d", total, len(result))
	}

	// 桌位过滤
	result, _, err = svc.List(context.Background(), &dto.ReservationListRequest{
		TableID: &t2,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("按桌位过滤应返回1条，实际=%d", len(result))
	}

	// 状态过滤
	status := model.StatusConfirmed
	_, total, err = svc.List(context.Background(), &dto.ReservationListRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("按状态过滤应返回2条，实际=%d", total)
	}
}
