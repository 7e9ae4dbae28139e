package worker

import (
	"log"
	"time"
)

// StatsRepository 워커가 수행하는 쓰기 작업의 최소 계약
type StatsRepository interface {
	IncrementSelected(crossCouponID string) error
}

// StatsTask 쿠폰 선택 통계 증분 작업
// 토큰 선택 트랜잭션과 분리하여 비동기로 반영한다 (통계는 결과적 일관성으로 충분)
type StatsTask struct {
	CrossCouponID string
	Retry         int // 재시도 횟수
}

type WorkerPool struct {
	TaskQueue  chan StatsTask
	RetryQueue chan StatsTask
	Repo       StatsRepository
	WorkerNum  int
	MaxRetry   int
}

func NewWorkerPool(repo StatsRepository, workerNum int, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan StatsTask, bufferSize),
		RetryQueue: make(chan StatsTask, bufferSize/2),
		Repo:       repo,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	log.Printf("Worker pool started with %d workers", p.WorkerNum)
}

func (p *WorkerPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.Repo.IncrementSelected(task.CrossCouponID); err != nil {
			log.Printf("[Worker %d] Failed to process stats task (CrossCouponID: %s): %v",
				id, task.CrossCouponID, err)

			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
					log.Printf("[Worker %d] Task added to retry queue (attempt %d/%d)",
						id, task.Retry, p.MaxRetry)
				default:
					log.Printf("[Worker %d] Retry queue full, task dropped: %+v", id, task)
					p.logFailedTask(task, err)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: %+v", id, task)
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for task := range p.RetryQueue {
		// 즉시 재시도를 피하기 위한 지연
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
			log.Printf("[RetryWorker] Task re-queued (attempt %d/%d)", task.Retry, p.MaxRetry)
		default:
			log.Printf("[RetryWorker] Main queue full, task dropped: %+v", task)
			p.logFailedTask(task, nil)
		}
	}
}

func (p *WorkerPool) logFailedTask(task StatsTask, err error) {
	log.Printf("[DeadLetter] Stats task failed permanently: CrossCouponID=%s, Error=%v",
		task.CrossCouponID, err)
}

func (p *WorkerPool) AddTask(task StatsTask) {
	select {
	case p.TaskQueue <- task:
		// 입큐 성공
	default:
		log.Printf("Worker pool queue full, dropping task: %+v", task)
		p.logFailedTask(task, nil)
	}
}
