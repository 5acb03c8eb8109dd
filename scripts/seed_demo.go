// 本地开发用演示数据脚本
//
// 创建几个互为好友的演示账号、一个饭团和一个开放饭局，方便前端联调。
// 重复执行是安全的：邮箱已存在的账号会被跳过。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"mealmate_backend/internal/config"
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/service"
	"mealmate_backend/pkg/database"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db, nil)
	squadRepo := repository.NewSquadRepository(db)
	mealRepo := repository.NewMealRepository(db)

	names := []struct {
		name  string
		email string
	}{
		{"小明", "xiaoming@demo.local"},
		{"小红", "xiaohong@demo.local"},
		{"阿强", "aqiang@demo.local"},
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)

	var users []*model.User
	for _, n := range names {
		if existing, err := userRepo.FindByEmail(n.email); err == nil {
			log.Printf("账号已存在，跳过: %s", n.email)
			users = append(users, existing)
			continue
		}
		u := &model.User{Name: n.name, Email: n.email, Password: string(hashed), LastSeen: time.Now()}
		if err := userRepo.Create(u); err != nil {
			log.Fatalf("创建演示账号失败: %v", err)
		}
		users = append(users, u)
	}

	friendshipSvc := service.NewFriendshipService(friendRepo, userRepo)
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			isFriend, _ := friendRepo.IsFriend(users[i].ID, users[j].ID)
			if isFriend {
				continue
			}
			if err := friendshipSvc.SendRequest(users[i].ID, users[j].ID, "演示数据"); err != nil {
				continue
			}
			if err := friendshipSvc.AcceptRequest(users[j].ID, users[i].ID); err != nil {
				log.Printf("建立好友关系失败: %v", err)
			}
		}
	}

	squadSvc := service.NewSquadService(squadRepo, userRepo)
	if _, err := squadRepo.FindByName("演示饭团"); err == gorm.ErrRecordNotFound {
		if _, err := squadSvc.Create(users[0].ID, "演示饭团", []uint{users[1].ID, users[2].ID}); err != nil {
			log.Printf("创建演示饭团失败: %v", err)
		}
	}

	mealSvc := service.NewMealService(mealRepo, squadRepo, friendRepo, userRepo)
	if _, err := mealSvc.CreateMeal(users[0].ID, service.CreateMealSpec{
		Name:         "演示开放晚饭",
		Date:         time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		TimeSlot:     model.SlotDinnerEarly,
		Location:     "学校东门火锅店",
		IsOpenToJoin: true,
	}); err != nil {
		log.Printf("创建演示饭局失败（可能已存在冲突）: %v", err)
	}

	log.Println("演示数据就绪，账号密码均为 demo123")
}
