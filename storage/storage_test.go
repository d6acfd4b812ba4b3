package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"menu-planner/domain"
)

type fakeTable struct {
	entities map[string][]byte
	getErr   error
}

func (f *fakeTable) UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error) {
	var ent draftEntity
	if err := sonic.Unmarshal(entity, &ent); err != nil {
		return aztables.UpsertEntityResponse{}, err
	}
	if f.entities == nil {
		f.entities = map[string][]byte{}
	}
	f.entities[ent.PartitionKey+"/"+ent.RowKey] = entity
	return aztables.UpsertEntityResponse{}, nil
}

func (f *fakeTable) GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error) {
	if f.getErr != nil {
		return aztables.GetEntityResponse{}, f.getErr
	}
	v, ok := f.entities[partitionKey+"/"+rowKey]
	if !ok {
		return aztables.GetEntityResponse{}, &azcore.ResponseError{StatusCode: 404, ErrorCode: "ResourceNotFound"}
	}
	return aztables.GetEntityResponse{Value: v}, nil
}

func TestStorageDraftEntity(t *testing.T) {
	table := &fakeTable{}
	store := &Storage{draftTable: table}
	ctx := context.Background()

	if _, err := store.LoadDraft(ctx, domain.DraftKey); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}

	payload := []byte(`{"Snack":[{"category":["Fruit"],"applyToAll":false,"days":[[],[],[],[],[],[],[]]}]}`)
	if err := store.SaveDraft(ctx, domain.DraftKey, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, ok := table.entities[DraftPartition+"/"+domain.DraftKey]
	if !ok {
		t.Fatalf("entity not stored under the drafts partition")
	}
	var ent draftEntity
	if err := sonic.Unmarshal(raw, &ent); err != nil {
		t.Fatalf("decode entity: %v", err)
	}
	if ent.Payload != string(payload) {
		t.Fatalf("unexpected entity payload: %s", ent.Payload)
	}

	got, err := store.LoadDraft(ctx, domain.DraftKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestStorageLoadDraftPropagatesErrors(t *testing.T) {
	boom := &azcore.ResponseError{StatusCode: 503, ErrorCode: "ServerBusy"}
	store := &Storage{draftTable: &fakeTable{getErr: boom}}
	_, err := store.LoadDraft(context.Background(), domain.DraftKey)
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) || respErr.StatusCode != 503 {
		t.Fatalf("expected the service error, got %#v", err)
	}
}
