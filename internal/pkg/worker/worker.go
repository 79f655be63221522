package worker

import (
	"time"

	"studylib/internal/domain/payment/model"
	"studylib/internal/domain/payment/repository"
	"studylib/pkg/logger"

	"go.uber.org/zap"
)

// AuditTask records one payment lifecycle event. Audit writes are kept
// off the request path: a forged-callback attempt must be logged, but a
// slow audit insert must not slow down or fail the finalize call.
type AuditTask struct {
	OrderID string
	UserID  string
	Event   string
	Detail  string
	Retry   int
}

type AuditPool struct {
	TaskQueue  chan AuditTask
	RetryQueue chan AuditTask
	Repo       repository.PaymentRepository
	WorkerNum  int
	MaxRetry   int
}

func NewAuditPool(repo repository.PaymentRepository, workerNum int, bufferSize int) *AuditPool {
	return &AuditPool{
		TaskQueue:  make(chan AuditTask, bufferSize),
		RetryQueue: make(chan AuditTask, bufferSize/2),
		Repo:       repo,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *AuditPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
}

// AddTask enqueues an audit event. Drops the event (with a log line)
// rather than blocking the caller when the queue is full.
func (p *AuditPool) AddTask(task AuditTask) {
	select {
	case p.TaskQueue <- task:
	default:
		if logger.Log != nil {
			logger.Log.Warn("audit queue full, event dropped",
				zap.String("order_id", task.OrderID),
				zap.String("event", task.Event),
			)
		}
	}
}

func (p *AuditPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			if logger.Log != nil {
				logger.Log.Error("audit write failed",
					zap.Int("worker", id),
					zap.String("order_id", task.OrderID),
					zap.String("event", task.Event),
					zap.Error(err),
				)
			}

			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					if logger.Log != nil {
						logger.Log.Error("audit retry queue full, event dropped",
							zap.String("order_id", task.OrderID),
							zap.String("event", task.Event),
						)
					}
				}
			}
		}
	}
}

// retryWorker drains the retry queue with a small backoff.
func (p *AuditPool) retryWorker() {
	for task := range p.RetryQueue {
		time.Sleep(time.Duration(task.Retry) * 500 * time.Millisecond)
		select {
		case p.TaskQueue <- task:
		default:
			// Both queues saturated; the event is already in the
			// structured log, so dropping here loses only the row.
		}
	}
}

func (p *AuditPool) processTask(task AuditTask) error {
	return p.Repo.CreateAuditEvent(&model.PaymentAudit{
		OrderID: task.OrderID,
		UserID:  task.UserID,
		Event:   task.Event,
		Detail:  task.Detail,
	})
}
