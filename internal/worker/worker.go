package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/saisaravanan/judgeboard/internal/analytics"
	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/saisaravanan/judgeboard/internal/queue"
	"github.com/saisaravanan/judgeboard/internal/storage"
)

// Worker drains the ingest stream, persists evaluation records in
// batches and invalidates cached metrics for the judges that gained
// new records.
type Worker struct {
	queue       *queue.RedisQueue
	evalRepo    *storage.EvaluationRepo
	service     *analytics.Service
	concurrency int
	batchSize   int
}

func New(
	q *queue.RedisQueue,
	evalRepo *storage.EvaluationRepo,
	service *analytics.Service,
	concurrency int,
	batchSize int,
) *Worker {
	return &Worker{
		queue:       q,
		evalRepo:    evalRepo,
		service:     service,
		concurrency: concurrency,
		batchSize:   batchSize,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	log.Printf("Starting ingest worker with concurrency=%d, batchSize=%d", w.concurrency, w.batchSize)

	jobs := make(chan []queue.Message, w.concurrency)
	var wg sync.WaitGroup

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processBatches(ctx, workerID, jobs)
		}(i)
	}

	go func() {
		defer close(jobs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				messages, err := w.queue.Consume(ctx, int64(w.batchSize), 5*time.Second)
				if err != nil {
					log.Printf("Error consuming messages: %v", err)
					time.Sleep(time.Second)
					continue
				}
				if len(messages) == 0 {
					continue
				}

				select {
				case jobs <- messages:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	wg.Wait()
	return nil
}

func (w *Worker) processBatches(ctx context.Context, workerID int, jobs <-chan []queue.Message) {
	for batch := range jobs {
		if err := w.processBatch(ctx, batch); err != nil {
			log.Printf("Worker %d: error processing batch of %d: %v", workerID, len(batch), err)
			continue
		}

		ids := make([]string, len(batch))
		for i, msg := range batch {
			ids[i] = msg.ID
		}
		if err := w.queue.Ack(ctx, ids...); err != nil {
			log.Printf("Worker %d: error acking batch: %v", workerID, err)
		}
	}
}

func (w *Worker) processBatch(ctx context.Context, batch []queue.Message) error {
	evals := make([]*domain.EvaluationRecord, 0, len(batch))
	judges := make(map[string]bool)

	for _, msg := range batch {
		evals = append(evals, msg.Evaluation)
		judges[msg.Evaluation.JudgeID] = true
	}

	if err := w.evalRepo.CreateBatch(ctx, evals); err != nil {
		return err
	}

	// New records make any cached snapshot for these judges stale ahead
	// of its freshness window.
	for judgeID := range judges {
		if err := w.service.Invalidate(ctx, judgeID); err != nil {
			log.Printf("Error invalidating metrics for judge %s: %v", judgeID, err)
		}
	}

	log.Printf("Persisted %d evaluation records across %d judges", len(evals), len(judges))
	return nil
}
