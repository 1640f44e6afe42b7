package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmployeeIDFromChineseName 用姓名拼音生成一个符合
// 雇员编号格式（大写字母、数字、连字符）的编号
func GenerateEmployeeIDFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	id := ""

	for _, py := range pinyinArray {
		id += strings.ToUpper(py[:1])
	}

	id += "-"
	for i := 0; i < 4; i++ {
		id += string(digits[rand.Intn(len(digits))])
	}

	return id
}

// GenerateUsernameFromChineseName 用姓名拼音生成登录用户名
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleViewer,
	domain.RoleAssetManager,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

// 部门、资产分类和资产状态直接取组织设置的默认值，
// 保证种子数据落在默认下拉选项的范围内
var defaultSettings = domain.DefaultSettings()

var positions = []string{"专员", "主管", "经理", "工程师", "实习生"}

func GenerateRandomEmployee(emailDomainName string) *domain.Employee {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	hireDate := time.Now().AddDate(0, -rand.Intn(36), -rand.Intn(28))

	runes := []rune(fullName)

	return &domain.Employee{
		EmployeeID: GenerateEmployeeIDFromChineseName(fullName),
		FirstName:  string(runes[1:]), // 名
		LastName:   string(runes[:1]), // 姓
		FullName:   fullName,
		Email:      username + "@" + emailDomainName,
		Department: defaultSettings.Departments[rand.Intn(len(defaultSettings.Departments))],
		Position:   positions[rand.Intn(len(positions))],
		Phone:      GenerateRandomPhone(),
		HireDate:   &hireDate,
		Status:     domain.EmployeeStatusActive,
	}
}

func GenerateRandomPhone() string {
	phone := make([]byte, 10)
	for i := range phone {
		phone[i] = digits[rand.Intn(len(digits))]
	}
	return string(phone)
}

func GenerateRandomAsset(sequence int) *domain.Asset {
	category := defaultSettings.Categories[rand.Intn(len(defaultSettings.Categories))]

	return &domain.Asset{
		InternalID: uuid.NewString(),
		AssetID:    fmt.Sprintf("AST-%04d", sequence),
		Name:       fmt.Sprintf("%s %02d 号", category, rand.Intn(100)),
		Category:   category,
		Status:     defaultSettings.Statuses[rand.Intn(len(defaultSettings.Statuses))],
		History: domain.AssetHistory{
			{
				ID:        uuid.NewString(),
				Timestamp: time.Now(),
				Action:    "创建",
				Details:   "种子数据生成",
			},
		},
	}
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
