package accounts

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"internlink_backend/internals/features/users/auth/dto"
	authModel "internlink_backend/internals/features/users/auth/model"
	authService "internlink_backend/internals/features/users/auth/service"

	"github.com/bytedance/sonic"
)

// SeedAccountsFromJSON: lewat Signup supaya profil company/intern + kode
// referral ikut dibuat. Email yang sudah ada dilewati.
func SeedAccountsFromJSON(ctx context.Context, svc *authService.Service, filePath string) (int, error) {
	log.Println("📥 Membaca file akun:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []dto.SignupRequest
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	created := 0
	for _, in := range inputs {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		var n int64
		if err := svc.DB.WithContext(ctx).Model(&authModel.UserModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			log.Printf("ℹ️ Akun '%s' sudah ada, dilewati.", email)
			continue
		}
		if _, err := svc.Signup(ctx, in); err != nil {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}
		created++
		log.Printf("✅ Berhasil insert akun '%s' (%s)", email, in.Role)
	}
	return created, nil
}
