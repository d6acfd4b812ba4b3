package storage

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"menu-planner/domain"
)

// DraftPartition is the table partition every draft entity lives in.
const DraftPartition = "drafts"

const (
	defaultQueueConcurrency = 10
	queuePerCPU             = 10
	maxQueueConcurrency     = 64
)

type entityClient interface {
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
}

type messageQueue interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// Storage keeps drafts in Azure Table storage and journals applied commands to
// an Azure Storage queue.
type Storage struct {
	draftTable       entityClient
	commandQueue     messageQueue
	queueConcurrency int
}

// New creates a Storage instance from the given connection string.
func New(connStr, draftsTable, commandQueue string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	cq, err := azqueue.NewQueueClientFromConnectionString(connStr, commandQueue, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{
		draftTable:       svc.NewClient(draftsTable),
		commandQueue:     cq,
		queueConcurrency: queueConcurrencyForCPU(runtime.NumCPU()),
	}, nil
}

func queueConcurrencyForCPU(cpu int) int {
	if cpu < 1 {
		return defaultQueueConcurrency
	}
	n := cpu * queuePerCPU
	if n > maxQueueConcurrency {
		return maxQueueConcurrency
	}
	return n
}

type draftEntity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
	Payload      string `json:"Payload"`
}

// SaveDraft upserts the draft entity for key. Last write wins.
func (s *Storage) SaveDraft(ctx context.Context, key string, payload []byte) error {
	data, err := sonic.Marshal(draftEntity{PartitionKey: DraftPartition, RowKey: key, Payload: string(payload)})
	if err == nil {
		_, err = s.draftTable.UpsertEntity(ctx, data, nil)
	}
	return err
}

// LoadDraft returns the stored payload or domain.ErrDraftNotFound.
func (s *Storage) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	ent, err := s.draftTable.GetEntity(ctx, DraftPartition, key, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == 404 {
			return nil, domain.ErrDraftNotFound
		}
		return nil, err
	}
	var d draftEntity
	if err := sonic.Unmarshal(ent.Value, &d); err != nil {
		return nil, fmt.Errorf("decode draft entity: %w", err)
	}
	return []byte(d.Payload), nil
}

// EnqueueCommands sends one envelope per command to the command queue. Sends
// run concurrently up to the configured limit; the first error is returned.
func (s *Storage) EnqueueCommands(ctx context.Context, boardID string, cmds []domain.Command) error {
	if len(cmds) == 0 {
		return nil
	}
	messages := make([]string, len(cmds))
	for i, cmd := range cmds {
		data, err := sonic.Marshal(domain.CommandEnvelope{BoardID: boardID, Command: cmd})
		if err != nil {
			return err
		}
		messages[i] = string(data)
	}

	limit := s.queueConcurrency
	if limit <= 1 {
		for _, msg := range messages {
			if _, err := s.commandQueue.EnqueueMessage(ctx, msg, nil); err != nil {
				return err
			}
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sem := make(chan struct{}, limit)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, msg := range messages {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(msg string) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := s.commandQueue.EnqueueMessage(ctx, msg, nil); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(msg)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
