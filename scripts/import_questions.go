// 手动导入题库脚本
//
// 从 YAML 题库文件导入测试、题目和选项。适用于首次部署或补充新章节
// 的题目；重复运行会按 test_number + type 跳过已存在的测试。
//
// 用法: go run scripts/import_questions.go data/question_bank.yaml

package main

import (
	"log"
	"os"

	"visaprep_backend/internal/config"
	"visaprep_backend/internal/model"
	"visaprep_backend/pkg/database"
	"visaprep_backend/pkg/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type answerEntry struct {
	AnswerID string `yaml:"answer_id"`
	Text     string `yaml:"text"`
	TextVi   string `yaml:"text_vi"`
	Correct  bool   `yaml:"correct"`
}

type questionEntry struct {
	Type          string        `yaml:"type"`
	Text          string        `yaml:"text"`
	TextVi        string        `yaml:"text_vi"`
	Explanation   string        `yaml:"explanation"`
	ExplanationVi string        `yaml:"explanation_vi"`
	Answers       []answerEntry `yaml:"answers"`
}

type testEntry struct {
	ChapterNumber *int            `yaml:"chapter_number"`
	TestNumber    int             `yaml:"test_number"`
	Type          string          `yaml:"type"`
	Title         string          `yaml:"title"`
	IsFree        bool            `yaml:"is_free"`
	IsPremium     bool            `yaml:"is_premium"`
	Questions     []questionEntry `yaml:"questions"`
}

type questionBank struct {
	Tests []testEntry `yaml:"tests"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_questions.go <bank.yaml>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取题库文件: %v", err)
	}

	var bank questionBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		log.Fatalf("解析题库文件失败: %v", err)
	}

	imported, skipped := 0, 0
	for _, entry := range bank.Tests {
		if !model.ValidTestType(entry.Type) {
			log.Fatalf("未知的测试类型: %q (test_number=%d)", entry.Type, entry.TestNumber)
		}

		var existing model.Test
		err := db.Where("test_number = ? AND type = ?", entry.TestNumber, entry.Type).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("查询测试失败: %v", err)
		}

		if err := importTest(db, entry); err != nil {
			log.Fatalf("导入测试 %q 失败: %v", entry.Title, err)
		}
		imported++
	}

	log.Printf("完成！导入 %d 个测试，跳过 %d 个已存在的测试", imported, skipped)
}

func importTest(db *gorm.DB, entry testEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		test := model.Test{
			TestNumber: entry.TestNumber,
			Type:       model.TestType(entry.Type),
			Title:      entry.Title,
			IsFree:     entry.IsFree,
			IsPremium:  entry.IsPremium,
		}

		if entry.ChapterNumber != nil {
			var chapter model.Chapter
			if err := tx.Where("chapter_number = ?", *entry.ChapterNumber).First(&chapter).Error; err != nil {
				return err
			}
			test.ChapterID = &chapter.ID
		}

		if err := tx.Create(&test).Error; err != nil {
			return err
		}

		for _, q := range entry.Questions {
			questionType := q.Type
			if questionType == "" {
				questionType = "single_choice"
			}
			question := model.Question{
				TestID:         test.ID,
				QuestionType:   questionType,
				QuestionText:   q.Text,
				QuestionTextVi: q.TextVi,
				Explanation:    q.Explanation,
				ExplanationVi:  q.ExplanationVi,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for _, a := range q.Answers {
				answer := model.Answer{
					QuestionID:   question.ID,
					AnswerID:     a.AnswerID,
					AnswerText:   a.Text,
					AnswerTextVi: a.TextVi,
					IsCorrect:    a.Correct,
				}
				if err := tx.Create(&answer).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
