// Package seed builds a mock fleet for first runs and for snapshot read
// failures. The pools mirror the shop's real intake sheets.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"garage-tracker/internal/entity"
)

var carTypes = []string{"รถยนต์", "รถกระบะ", "รถมอเตอร์ไซค์"}

var brands = []string{
	"Toyota", "Honda", "Ford", "Chevrolet", "Nissan", "BMW", "Mercedes-Benz",
	"Audi", "Volkswagen", "Hyundai", "Mazda", "Mitsubishi", "Suzuki", "Isuzu", "Kia",
}

var models = []string{
	"Model A", "Model B", "Model C", "Model D", "Model E",
	"Model F", "Model G", "Model H", "Model I", "Model J",
}

var years = []string{"2024", "2023", "2022", "2021", "2020", "2019", "2018", "2017", "2016", "2015"}

var colors = []string{
	"ขาว", "ดำ", "เทา", "เงิน", "แดง", "น้ำเงิน", "ฟ้า", "เขียว",
	"เหลือง", "ส้ม", "น้ำตาล", "ทอง", "ครีม", "กรมท่า",
}

var insurers = []string{
	"วิริยะประกันภัย", "ทิพยประกันภัย", "ธนชาตประกันภัย", "เมืองไทยประกันภัย",
	"สินมั่นคงประกันภัย", "ไทยศรีประกันภัย", "อาคเนย์ประกันภัย",
}

var receivers = []string{
	"สมชาย มีสุข", "วิชัย เก่ง", "สุธี แก้ว", "ประเสริฐ ทอง", "กฤษณ์ เดชา",
	"อนุชิต รักษ์", "ธนา วิริยะ", "พิชัย หาญ", "ดำรง จันทร์", "วีระ ณรงค์",
}

var plateLetters = []rune("กขคงจฉชซญดตถทธนบปผพฟภมยรลวศษสหอฮ")

// seedTimestamp is the fixed stamp written into pre-resolved seed steps.
const seedTimestamp = "10/01/2026 10:00"

// Jobs generates n mock jobs with a mix of progress states: roughly 30%
// still in claim, 30% in repair, 25% in billing and 15% finished, each with
// consistent stage flags.
func Jobs(n int) []entity.Job {
	rng := rand.New(rand.NewSource(1))

	jobs := make([]entity.Job, 0, n)
	for i := 0; i < n; i++ {
		start := fmt.Sprintf("2025-%02d-%02d", 10+rng.Intn(3), 1+rng.Intn(28))
		end := fmt.Sprintf("2026-01-%02d", 1+rng.Intn(28))
		payment := entity.PaymentInsurance
		insurer := insurers[rng.Intn(len(insurers))]
		if rng.Float64() < 0.3 {
			payment = entity.PaymentCash
			insurer = ""
		}

		job := entity.Job{
			ID:               uuid.NewString(),
			Registration:     plate(rng),
			BagNumber:        fmt.Sprintf("MR%09d", rng.Intn(1_000_000_000)),
			Brand:            brands[rng.Intn(len(brands))],
			Type:             carTypes[rng.Intn(len(carTypes))],
			Model:            models[rng.Intn(len(models))],
			Year:             years[rng.Intn(len(years))],
			Color:            colors[rng.Intn(len(colors))],
			StartDate:        start,
			EstimatedEndDate: end,
			ExcessFee:        500 + rng.Intn(5000),
			Receiver:         receivers[rng.Intn(len(receivers))],
			PaymentType:      payment,
			InsuranceCompany: insurer,
			CustomerName:     receivers[rng.Intn(len(receivers))],
			CustomerPhone:    fmt.Sprintf("08%d-%03d-%04d", 1+rng.Intn(9), rng.Intn(1000), rng.Intn(10000)),
			Stages:           entity.BuildInitialStages(),
		}

		switch p := rng.Float64(); {
		case p < 0.30:
			// fresh claim
		case p < 0.60:
			completeStage(&job, 0, rng)
		case p < 0.85:
			completeStage(&job, 0, rng)
			completeStage(&job, 1, rng)
		default:
			completeStage(&job, 0, rng)
			completeStage(&job, 1, rng)
			completeStage(&job, 2, rng)
		}

		jobs = append(jobs, job)
	}
	return jobs
}

// completeStage resolves every step of stage idx and applies the same
// unlock/advance consequences the engine would.
func completeStage(job *entity.Job, idx int, rng *rand.Rand) {
	stage := &job.Stages[idx]
	for i := range stage.Steps {
		stage.Steps[i].Status = entity.StatusCompleted
		stage.Steps[i].Timestamp = seedTimestamp
		stage.Steps[i].Employee = receivers[rng.Intn(len(receivers))]
	}
	stage.IsCompleted = true

	if idx+1 < len(job.Stages) {
		job.Stages[idx+1].IsLocked = false
		job.CurrentStageIndex = idx + 1
	} else {
		job.IsFinished = true
	}
}

func plate(rng *rand.Rand) string {
	l := func() rune { return plateLetters[rng.Intn(len(plateLetters))] }
	return fmt.Sprintf("%d%c%c %04d", 1+rng.Intn(9), l(), l(), rng.Intn(10000))
}
