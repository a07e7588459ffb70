package galmask

import(
	"log"
	"sync"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
	"github.com/abworrall/galaxy-mask/pkg/emath"
)

// A MaskJob is the work for one image.
type MaskJob struct {
	// Inputs for the job
	Index    int
	Filename string
	Frame    ImageFrame  // leave Projector nil to have it loaded from Filename

	// Output
	Mask     *emath.BoolGrid
	Report   Report
	Warnings []string
	Err      error
}

func (c Config)runJob(job *MaskJob, cat catalog.Catalog) {
	if job.Frame.Projector == nil {
		frame, warnings, err := LoadFrame(job.Filename, c.HDU)
		if err != nil {
			job.Err = err
			return
		}
		job.Frame, job.Warnings = frame, warnings
	}

	if c.Verbosity > 1 {
		for _, w := range job.Warnings {
			log.Printf("[%s] WCS warning: %s\n", job.Frame.Name, w)
		}
	}

	job.Mask, job.Report, job.Err = ComputeGalaxyMask(job.Frame, cat, c.Options())
}

// MaskFrames uses a pool of goroutines to compute masks for many images
// against one catalog. The catalog is shared, and only read; every job
// gets its own mask. Jobs come back in the order they went in. A failed
// image doesn't stop the others, look in each job's Err.
func (c Config)MaskFrames(jobs []MaskJob, cat catalog.Catalog) []MaskJob {
	var wg sync.WaitGroup
	jobsChan    := make(chan MaskJob, len(jobs))
	resultsChan := make(chan MaskJob, len(jobs))

	nWorkers := c.Workers
	if nWorkers < 1 {
		nWorkers = 1
	}
	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				c.runJob(&job, cat)
				resultsChan<- job
			}
		}()
	}

	for i, job := range jobs {
		job.Index = i
		jobsChan<- job
	}

	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	results := make([]MaskJob, len(jobs))
	for result := range resultsChan {
		results[result.Index] = result
	}

	return results
}

// JobsFromFiles makes a job per image file.
func JobsFromFiles(filenames []string) []MaskJob {
	jobs := []MaskJob{}
	for _, f := range filenames {
		jobs = append(jobs, MaskJob{Filename: f})
	}
	return jobs
}
