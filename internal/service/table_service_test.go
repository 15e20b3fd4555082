package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

func setupTestTableService() (TableService, *repository.Repository) {
	repo := newTestRepository()
	svc := NewTableService(repo, zap.NewNop())
	return svc, repo
}

func TestTableService_Create_Success(t *testing.T) {
	svc, _ := setupTestTableService()

	result, err := svc.Create(context.Background(), &dto.CreateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 4,
		Location:    strPtr("靠窗"),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.TableNumber != "T1" {
		t.Errorf("期望TableNumber=T1，实际=%s", result.TableNumber)
	}
	if result.ChairCount != 4 {
		t.Errorf("椅子数量应等于最大容量4，实际=%d", result.ChairCount)
	}
}

func TestTableService_Create_InvalidCapacity(t *testing.T) {
	svc, _ := setupTestTableService()

	_, err := svc.Create(context.Background(), &dto.CreateTableRequest{
		TableNumber: "T1",
		MinCapacity: 6,
		MaxCapacity: 4,
	})
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("期望 ErrInvalidCapacity，实际: %v", err)
	}
}

func TestTableService_Create_DuplicateNumber(t *testing.T) {
	svc, _ := setupTestTableService()

	req := &dto.CreateTableRequest{TableNumber: "T1", MinCapacity: 2, MaxCapacity: 4}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrTableNumberTaken) {
		t.Errorf("期望 ErrTableNumberTaken，实际: %v", err)
	}
}

func TestTableService_Update_ChairSync(t *testing.T) {
	svc, _ := setupTestTableService()

	created, err := svc.Create(context.Background(), &dto.CreateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 4,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 缩容 4 → 2
	result, err := svc.Update(context.Background(), created.ID, &dto.UpdateTableRequest{
		TableNumber: "T1",
		MinCapacity: 1,
		MaxCapacity: 2,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.ChairCount != 2 {
		t.Errorf("缩容后椅子数量应为2，实际=%d", result.ChairCount)
	}

	// 扩容 2 → 6
	result, err = svc.Update(context.Background(), created.ID, &dto.UpdateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 6,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.ChairCount != 6 {
		t.Errorf("扩容后椅子数量应为6，实际=%d", result.ChairCount)
	}
}

func TestTableService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTableService()

	_, err := svc.Update(context.Background(), "no-such-id", &dto.UpdateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 4,
	})
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("期望 ErrTableNotFound，实际: %v", err)
	}
}

func TestTableService_Delete_Success(t *testing.T) {
	svc, _ := setupTestTableService()

	created, err := svc.Create(context.Background(), &dto.CreateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 4,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("删除后应查不到，实际: %v", err)
	}
}

func TestTableService_Delete_InUse(t *testing.T) {
	svc, repo := setupTestTableService()
	openAllWeek(t, repo)

	created, err := svc.Create(context.Background(), &dto.CreateTableRequest{
		TableNumber: "T1",
		MinCapacity: 2,
		MaxCapacity: 4,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	addReservation(t, repo, "2026-03-02", "18:00", 90, 2, model.StatusConfirmed, created.ID)

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrTableInUse) {
		t.Errorf("有分配记录的桌位应拒绝删除，实际: %v", err)
	}
}

func TestTableService_List_Filters(t *testing.T) {
	svc, _ := setupTestTableService()

	mk := func(number string, minCap, maxCap int, shared bool) {
		_, err := svc.Create(context.Background(), &dto.CreateTableRequest{
			TableNumber: number,
			MinCapacity: minCap,
			MaxCapacity: maxCap,
			IsShared:    shared,
		})
		if err != nil {
			t.Fatalf("创建桌位失败: %v", err)
		}
	}
	mk("T1", 2, 2, false)
	mk("T2", 2, 6, false)
	mk("共享桌", 1, 10, true)

	shared := true
	result, err := svc.List(context.Background(), &dto.TableListRequest{IsShared: &shared})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 || !result[0].IsShared {
		t.Errorf("共享桌过滤不符: %+v", result)
	}

	result, err = svc.List(context.Background(), &dto.TableListRequest{MaxCapacity: intPtr(6)})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("max_capacity>=6 应返回2张，实际=%d", len(result))
	}
}
