package tasks

import "time"

// Job is a runnable unit of work. Run is executed by a worker once the job
// leaves the dispatch queue.
type Job struct {
	Queue   string
	ID      string
	Added   time.Time
	Started time.Time
	Name    string
	Run     func() `json:"-"`
}

// Worker attaches to a provided worker pool and pulls jobs from its
// job channel.
type Worker struct {
	workerPool chan chan Job
	jobChannel chan Job
	quit       chan bool
}

func NewWorker(workerPool chan chan Job) *Worker {
	return &Worker{
		workerPool: workerPool,
		jobChannel: make(chan Job),
		quit:       make(chan bool),
	}
}

// Start begins the worker loop: register with the pool, wait for a job,
// run it, repeat.
func (w *Worker) Start() {
	go func() {
		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				GlobalQueue.UpdateStartedQueue(job)
				job.Run()
				GlobalQueue.RemoveQueue(job)
			case <-w.quit:
				return
			}
		}
	}()
}

// Stop ends the worker loop after the current job finishes.
func (w *Worker) Stop() {
	go func() {
		w.quit <- true
	}()
}
