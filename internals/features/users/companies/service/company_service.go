package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"internlink_backend/internals/features/users/companies/dto"
	companyModel "internlink_backend/internals/features/users/companies/model"
	"internlink_backend/internals/helpers/fault"
	helperOSS "internlink_backend/internals/helpers/oss"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxLogoBytes = 5 << 20

type Service struct {
	DB    *gorm.DB
	Files helperOSS.Store // nil → upload logo 503
}

func New(db *gorm.DB, files helperOSS.Store) *Service {
	return &Service{DB: db, Files: files}
}

func (s *Service) Get(ctx context.Context, companyID uuid.UUID) (*companyModel.CompanyModel, error) {
	var m companyModel.CompanyModel
	if err := s.DB.WithContext(ctx).First(&m, "id = ?", companyID).Error; err != nil {
		return nil, pgerr.Map(err, "company profile")
	}
	return &m, nil
}

func (s *Service) Update(ctx context.Context, companyID uuid.UUID, req dto.UpdateCompanyRequest) (*companyModel.CompanyModel, error) {
	m, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	changes := req.Apply(m)
	if len(changes) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(&companyModel.CompanyModel{}).
		Where("id = ?", companyID).Updates(changes).Error; err != nil {
		return nil, pgerr.Map(err, "company profile")
	}
	return s.Get(ctx, companyID)
}

// UploadLogo: gambar apapun → WebP 512px → object storage → logo_url.
func (s *Service) UploadLogo(ctx context.Context, companyID uuid.UUID, data []byte) (*dto.LogoResponse, error) {
	if s.Files == nil {
		return nil, fault.Unavailable("file storage is not configured")
	}
	if len(data) > MaxLogoBytes {
		return nil, fault.Validation(fmt.Sprintf("logo too large (max %d MB)", MaxLogoBytes>>20))
	}
	if _, err := s.Get(ctx, companyID); err != nil {
		return nil, err
	}

	webpData, err := helperOSS.ConvertToWebP(data, helperOSS.LogoWebPOptions)
	if err != nil {
		if errors.Is(err, helperOSS.ErrUnsupportedImage) {
			return nil, fault.Validation(err.Error())
		}
		return nil, fault.Validation("logo must be an image: " + err.Error())
	}

	key := helperOSS.BuildObjectKey("logos/"+companyID.String(), "logo.webp")
	url, err := s.Files.Put(ctx, key, "image/webp", bytes.NewReader(webpData))
	if err != nil {
		return nil, fault.Upstream("failed to store logo", err)
	}
	if err := s.DB.WithContext(ctx).Model(&companyModel.CompanyModel{}).
		Where("id = ?", companyID).Update("logo_url", url).Error; err != nil {
		return nil, pgerr.Map(err, "company profile")
	}
	log.Printf("[INFO] company logo updated company=%s bytes=%d", companyID, len(webpData))
	return &dto.LogoResponse{LogoURL: url, Size: len(webpData)}, nil
}
