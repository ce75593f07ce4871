package gateway

import (
	"time"

	"github.com/iloilo-msme/produkta/internal/models"
)

// FixtureData is a snapshot of store content
type FixtureData struct {
	Sectors []models.Sector
	MSMEs   []models.MSME
	Admins  []models.AdminAccount
}

var fixtureTime = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

// Fixtures returns the development data set: Iloilo sectors, MSMEs and admin accounts
func Fixtures() FixtureData {
	sectors := []models.Sector{
		{ID: 1, Name: "Bamboo", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 2, Name: "Coffee", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 3, Name: "Coconut", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 4, Name: "Food Processing", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 5, Name: "Handicrafts", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 6, Name: "Wearables", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
	}

	msmes := []models.MSME{
		fixtureMSME(1, "Net's VCO", "Virgin coconut oil cold-pressed from Lemery coconuts", 3, "Nette Santos", "9171234567", "netsvco@example.com", "Lemery", "Poblacion", 2012, 100231, []string{"virgin coconut oil", "coco soap"}),
		fixtureMSME(2, "Mountain Brew", "Arabica and robusta roasted in the Alimodian highlands", 2, "Ramon Dela Cruz", "9181112222", "mountainbrew@example.com", "Alimodian", "Dao", 2016, 100452, []string{"roasted beans", "ground coffee"}),
		fixtureMSME(3, "Janiuay Bamboo Works", "Bamboo furniture and home fixtures", 1, "Joy Villanueva", "9193334444", "janiuaybamboowor@example.com", "Janiuay", "Atimonan", 2009, 98811, []string{"bamboo chairs", "bamboo beds"}),
		fixtureMSME(4, "Miag-ao Hablon House", "Handwoven hablon fabric and accessories", 6, "Lorna Sarmiento", "9205556666", "miagaohablonhous@example.com", "Miagao", "Indag-an", 2005, 87120, []string{"hablon scarves", "hablon bags"}),
		fixtureMSME(5, "Guimbal Bucayo Delights", "Coconut bucayo and native sweets", 4, "Carmen Tupas", "9277778888", "guimbalbucayodel@example.com", "Guimbal", "Nanga", 2018, 101780, []string{"bucayo", "coco jam"}),
		fixtureMSME(6, "Oton Coco Crafts", "Coconut shell decors and kitchenware", 3, "Eduardo Gallo", "9351239876", "otoncococrafts@example.com", "Oton", "Trapiche", 2014, 99302, []string{"coco bowls", "shell lamps"}),
		fixtureMSME(7, "Tigbauan Pasalubong Center", "Biscocho, barquillos and butterscotch", 4, "Maria Solis", "9456547890", "tigbauanpasalubo@example.com", "Tigbauan", "Bantud", 2011, 96420, []string{"biscocho", "barquillos"}),
		fixtureMSME(8, "Pototan Weaves", "Abaca and buri woven bags", 5, "Angelita Paredes", "9561112233", "pototanweaves@example.com", "Pototan", "Cau-ayan", 2008, 90011, []string{"buri bags", "abaca mats"}),
		fixtureMSME(9, "Dumangas Bamboo Grove", "Engineered bamboo panels", 1, "Noel Catalan", "9662223344", "dumangasbamboogr@example.com", "Dumangas", "Lacturan", 2019, 102210, []string{"bamboo panels", "bamboo straws"}),
		fixtureMSME(10, "Passi Highland Coffee", "Single-origin coffee from Passi City", 2, "Teresa Gumban", "9773334455", "passihighlandcof@example.com", "Passi City", "Poblacion Ilawod", 2020, 103005, []string{"coffee beans", "coffee liqueur"}),
		fixtureMSME(11, "Iloilo Batchoy Mix", "Instant La Paz batchoy kits", 4, "Ronaldo Tan", "9954445566", "iloilobatchoymix@example.com", "Iloilo City", "La Paz", 2015, 100980, []string{"batchoy kits", "chicharon"}),
		fixtureMSME(12, "Calinog Coco Sugar", "Organic coconut sap sugar", 3, "Liza Gonzaga", "9065556677", "calinogcocosugar@example.com", "Calinog", "Poblacion Rizal", 2017, 101233, []string{"coco sugar", "coco syrup"}),
		fixtureMSME(13, "Leon Rattan Studio", "Rattan and bamboo lamps", 5, "Arnel Dumalag", "9176667788", "leonrattanstudio@example.com", "Leon", "Capt. Fernando", 2010, 94511, []string{"rattan lamps", "bamboo trays"}),
		fixtureMSME(14, "Cabatuan Kape Ilonggo", "Community roasted barako coffee", 2, "Gemma Javier", "9187778899", "cabatuankapeilon@example.com", "Cabatuan", "Tiring", 2013, 98001, []string{"barako coffee", "coffee candies"}),
		fixtureMSME(15, "San Joaquin Piña Hub", "Piña cloth barong and gowns", 6, "Rosario Ledesma", "9198889900", "sanjoaquinpinahub@example.com", "San Joaquin", "Bucaya", 2007, 85230, []string{"piña barong", "piña gowns"}),
		fixtureMSME(16, "Santa Barbara Kakanin", "Rice cakes and native delicacies", 4, "Nenita Bautista", "9209990011", "santabarbarakaka@example.com", "Santa Barbara", "Bolong Oeste", 2016, 100720, []string{"bibingka", "puto manapla"}),
		fixtureMSME(17, "Barotac Nuevo Coir", "Coconut coir nets and mats", 3, "Danilo Salas", "9270001122", "barotacnuevocoir@example.com", "Barotac Nuevo", "Tabucan", 2012, 97110, []string{"coir nets", "coir pots"}),
		fixtureMSME(18, "Maasin Bamboo Bikes", "Handmade bamboo bicycle frames", 1, "Paolo Lim", "9351112200", "maasinbamboobike@example.com", "Maasin", "Bolo", 2021, 104002, []string{"bamboo bikes"}),
		fixtureMSME(19, "Estancia Dried Seafood", "Dried danggit, pusit and fish crackers", 4, "Gloria Tolentino", "9452223311", "estanciadriedsea@example.com", "Estancia", "Poblacion Zone I", 2006, 88900, []string{"dried pusit", "fish crackers"}),
		fixtureMSME(20, "Alimodian Cacao Farm", "Tablea and cacao nibs", 2, "Ernesto Padilla", "9563334422", "alimodiancacaofa@example.com", "Alimodian", "Bagumbayan", 2018, 101990, []string{"tablea", "cacao nibs"}),
		fixtureMSME(21, "Lambunao Loom Weavers", "Patadyong and table runners", 6, "Virginia Lao", "9664445533", "lambunaoloomweav@example.com", "Lambunao", "Pasig", 2004, 83300, []string{"patadyong", "table runners"}),
		fixtureMSME(22, "Dingle Stoneware", "Hand-thrown clay and stone pots", 5, "Ramil Belen", "9775556644", "dinglestoneware@example.com", "Dingle", "Abangay", 2015, 99880, []string{"clay pots", "stone mortar"}),
		fixtureMSME(23, "Zarraga Salted Eggs", "Itlog na pula and century eggs", 4, "Precy Sumagaysay", "9956667755", "zarragasaltedegg@example.com", "Zarraga", "Ilawod", 2010, 95070, []string{"salted eggs"}),
	}

	admins := []models.AdminAccount{
		{ID: 1, Username: "superadmin", Email: "produkta@iloilo.gov.ph", FullName: "ProdukTa Administrator", Role: models.RoleSuperAdmin, Active: true, CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 2, Username: "coffee.admin", Email: "coffee@iloilo.gov.ph", FullName: "Coffee Sector Admin", Role: models.RoleAdmin, SectorID: 2, Active: true, CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		{ID: 3, Username: "coconut.admin", Email: "coconut@iloilo.gov.ph", FullName: "Coconut Sector Admin", Role: models.RoleAdmin, SectorID: 3, Active: true, CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
	}

	return FixtureData{Sectors: sectors, MSMEs: msmes, Admins: admins}
}

func fixtureMSME(id int64, name, description string, sectorID int64, person, phone, email, city, barangay string, year int, dti int64, lines []string) models.MSME {
	m := models.NewMSME(id, models.MSMEPayload{
		CompanyName:       name,
		Description:       description,
		SectorID:          sectorID,
		ContactPerson:     person,
		ContactNumber:     phone,
		Email:             email,
		CityMunicipality:  city,
		Barangay:          barangay,
		YearEstablished:   year,
		DTINumber:         dti,
		MajorProductLines: lines,
	}, "superadmin", fixtureTime)
	m.Visits = (id * 7) % 31
	return m
}
