package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"crew-hub/internal/model"
	"crew-hub/internal/pkg/crypto"
	"crew-hub/internal/pkg/logger"
	"crew-hub/pkg/constants"
)

// File 种子文件结构 (configs/roles.yaml)
type File struct {
	// Roles 派工角色标签(焊工/电工/安全员等)
	Roles []string `yaml:"roles"`
	// Admin 可选的初始管理员账号
	Admin *AdminSeed `yaml:"admin"`
}

// AdminSeed 初始管理员
type AdminSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// Run 加载种子文件并写入数据库, 多次执行结果一致
func Run(db *gorm.DB, path string) error {
	if path == "" {
		logger.Info("未配置种子文件, 跳过数据初始化")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取种子文件失败: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("解析种子文件失败: %w", err)
	}

	if err := seedRoles(db, file.Roles); err != nil {
		return err
	}

	if file.Admin != nil {
		if err := seedAdmin(db, file.Admin); err != nil {
			return err
		}
	}

	return nil
}

func seedRoles(db *gorm.DB, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		role := model.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("初始化角色 %s 失败: %w", name, err)
		}
	}
	logger.Info(fmt.Sprintf("角色标签初始化完成, 共 %d 个", len(names)))
	return nil
}

func seedAdmin(db *gorm.DB, admin *AdminSeed) error {
	if admin.Username == "" || admin.Password == "" {
		return fmt.Errorf("管理员种子缺少用户名或密码")
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("auth_provider = ? AND username = ?", constants.AuthTypeLocal, admin.Username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("检查管理员账号失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("管理员密码哈希失败: %w", err)
	}

	user := model.User{
		AuthProvider: constants.AuthTypeLocal,
		Username:     admin.Username,
		Password:     hashed,
		SystemRoles:  model.StringList{"system_admin"},
	}
	if admin.Email != "" {
		user.Email = &admin.Email
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("创建管理员账号失败: %w", err)
	}

	logger.Info("初始管理员账号已创建: " + admin.Username)
	return nil
}
