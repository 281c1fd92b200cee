package clients

import (
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
)

type ClientSeed struct {
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email"`
	Telefono *string `json:"telefono"`
	RTN      *string `json:"rtn"`
	Oficio   *string `json:"oficio"`
}

type ProjectSeed struct {
	Nombre               string  `json:"nombre"`
	Tipo                 *string `json:"tipo"`
	CorreoAdministracion *string `json:"correo_administracion"`
}

type Fixture struct {
	Clientes  []ClientSeed  `json:"clientes"`
	Proyectos []ProjectSeed `json:"proyectos"`
}

// SeedClientsFromJSON inserts the fixture's clients and projects, skipping
// any whose nombre already exists. Returns how many rows were inserted.
func SeedClientsFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Reading", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := sonic.Unmarshal(raw, &fx); err != nil {
		return 0, fmt.Errorf("decode fixture: %w", err)
	}

	inserted := 0
	for _, s := range fx.Clientes {
		var n int64
		if err := db.Model(&clientModel.ClientModel{}).Where("nombre = ?", s.Nombre).Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			log.Printf("ℹ️ client %q exists, skipping", s.Nombre)
			continue
		}
		row := clientModel.ClientModel{
			ClientName:       s.Nombre,
			ClientEmail:      s.Email,
			ClientPhone:      s.Telefono,
			ClientTaxID:      s.RTN,
			ClientOccupation: s.Oficio,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("❌ insert client %q: %v", s.Nombre, err)
			continue
		}
		inserted++
		log.Printf("✅ client %q", s.Nombre)
	}

	for _, s := range fx.Proyectos {
		var n int64
		if err := db.Model(&projectModel.ProjectModel{}).Where("nombre = ?", s.Nombre).Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			log.Printf("ℹ️ project %q exists, skipping", s.Nombre)
			continue
		}
		row := projectModel.ProjectModel{
			ProjectName:       s.Nombre,
			ProjectType:       s.Tipo,
			ProjectAdminEmail: s.CorreoAdministracion,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("❌ insert project %q: %v", s.Nombre, err)
			continue
		}
		inserted++
		log.Printf("✅ project %q", s.Nombre)
	}
	return inserted, nil
}
