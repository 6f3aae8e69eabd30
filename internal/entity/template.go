package entity

import "strconv"

// Canonical step catalog for the three-phase body-shop workflow.
// Display names are kept in Thai to match the shop's paperwork.
var claimSteps = []string{
	"ยื่นเคลม", "เช็ครายการ", "ขอราคา", "เสนอราคา", "ส่งประกัน", "อนุมัติ",
	"หาอะไหล่", "สั่งอะไหล่", "อะไหล่ครบ", "นัดคิวเข้า", "ลูกค้าเข้าจอด",
	"เสนอเพิ่ม", "รถเสร็จ(เตรียมซ่อม)",
}

var repairSteps = []string{
	"รื้อถอน", "เคาะ", "เบิกอะไหล่", "โป้วสี", "พ่นสีพื้น", "พ่นสีจริง",
	"ประกอบ", "ขัดสี", "ล้างรถ", "QC", "ลูกค้ารับรถ",
}

var billingSteps = []string{
	"รถเสร็จสมบูรณ์", "เรียงรูป", "ส่งอนุมัติ", "ส่งอนุมัติเสร็จ",
	"ออกใบกำกับภาษี", "เรียงเรื่อง", "นำเรื่องตั้งเบิก", "วันตั้งเบิก",
}

type stageTemplate struct {
	id         StageID
	name       string
	stepPrefix string
	stepNames  []string
}

// Stage order here IS the workflow: claim -> repair -> billing.
var workflowTemplate = []stageTemplate{
	{id: StageClaim, name: "เคลม", stepPrefix: "c", stepNames: claimSteps},
	{id: StageRepair, name: "ซ่อม", stepPrefix: "r", stepNames: repairSteps},
	{id: StageBilling, name: "เบิก", stepPrefix: "b", stepNames: billingSteps},
}

// BuildInitialStages materializes a fresh stage layout for a new job:
// claim unlocked, repair and billing locked, every step pending with no
// timestamp or employee. Each call builds independent step slices so jobs
// never share state through the template.
func BuildInitialStages() []Stage {
	stages := make([]Stage, 0, len(workflowTemplate))
	for i, tpl := range workflowTemplate {
		steps := make([]Step, 0, len(tpl.stepNames))
		for idx, name := range tpl.stepNames {
			steps = append(steps, Step{
				ID:     tpl.stepPrefix + "-" + strconv.Itoa(idx),
				Name:   name,
				Status: StatusPending,
			})
		}
		stages = append(stages, Stage{
			ID:       tpl.id,
			Name:     tpl.name,
			Steps:    steps,
			IsLocked: i != 0,
		})
	}
	return stages
}

// StageCount is fixed by the workflow definition.
const StageCount = 3
