package gateway

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoCollections names the collections used by the Mongo store
type MongoCollections struct {
	MSMEs    string
	Sectors  string
	Admins   string
	Counters string
}

// Mongo is a Store backed by MongoDB. Integer ids come from a counters collection.
type Mongo struct {
	db       *mongo.Database
	msmes    *mongo.Collection
	sectors  *mongo.Collection
	admins   *mongo.Collection
	counters *mongo.Collection
	logger   *logging.SafeLogger
	timeout  time.Duration
	now      func() time.Time
}

type msmeDocument struct {
	models.MSME `bson:",inline"`
	NameKey     string `bson:"name_key"`
}

type sectorDocument struct {
	models.Sector `bson:",inline"`
	NameKey       string `bson:"name_key"`
}

type counterDocument struct {
	Seq int64 `bson:"seq"`
}

// NewMongo creates a Mongo store over db
func NewMongo(db *mongo.Database, names MongoCollections, logger *logging.SafeLogger) *Mongo {
	return &Mongo{
		db:       db,
		msmes:    db.Collection(names.MSMEs),
		sectors:  db.Collection(names.Sectors),
		admins:   db.Collection(names.Admins),
		counters: db.Collection(names.Counters),
		logger:   logger.Named("mongo_store"),
		timeout:  utils.DefaultQueryTimeout,
		now:      time.Now,
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on
func (g *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		g.msmes: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("msme_name_key_unique")},
			{Keys: bson.D{{Key: "sector_id", Value: 1}}, Options: options.Index().SetName("msme_sector_id")},
			{Keys: bson.D{{Key: "city_municipality", Value: 1}}, Options: options.Index().SetName("msme_city")},
		},
		g.sectors: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("sector_name_key_unique")},
		},
		g.admins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("admin_username_unique")},
		},
	}

	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	g.logger.Info("mongo indexes ensured")
	return nil
}

// Seed upserts data and moves the id counters past the seeded ids
func (g *Mongo) Seed(ctx context.Context, data FixtureData) error {
	upsert := options.Replace().SetUpsert(true)
	var maxSector, maxMSME, maxAdmin int64

	for _, s := range data.Sectors {
		doc := sectorDocument{Sector: s, NameKey: s.GetNormalizedName()}
		if _, err := g.sectors.ReplaceOne(ctx, bson.M{"_id": s.ID}, doc, upsert); err != nil {
			return fmt.Errorf("failed to seed sector %d: %w", s.ID, err)
		}
		maxSector = max(maxSector, s.ID)
	}
	for _, m := range data.MSMEs {
		doc := msmeDocument{MSME: m, NameKey: models.NormalizedName(m.CompanyName)}
		if _, err := g.msmes.ReplaceOne(ctx, bson.M{"_id": m.ID}, doc, upsert); err != nil {
			return fmt.Errorf("failed to seed msme %d: %w", m.ID, err)
		}
		maxMSME = max(maxMSME, m.ID)
	}
	for _, a := range data.Admins {
		if _, err := g.admins.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, upsert); err != nil {
			return fmt.Errorf("failed to seed admin %d: %w", a.ID, err)
		}
		maxAdmin = max(maxAdmin, a.ID)
	}

	for name, seq := range map[string]int64{g.sectors.Name(): maxSector, g.msmes.Name(): maxMSME, g.admins.Name(): maxAdmin} {
		_, err := g.counters.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$max": bson.M{"seq": seq}}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed counter %s: %w", name, err)
		}
	}
	return nil
}

func (g *Mongo) nextID(ctx context.Context, coll *mongo.Collection) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var counter counterDocument
	err := g.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": coll.Name()},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id for %s: %w", coll.Name(), err)
	}
	return counter.Seq, nil
}

func (g *Mongo) ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error) {
	filter := bson.M{}
	if len(filters.Sectors) > 0 {
		filter["sector_id"] = bson.M{"$in": filters.Sectors}
	}
	if len(filters.Locations) > 0 {
		patterns := make([]interface{}, 0, len(filters.Locations))
		for _, loc := range filters.Locations {
			patterns = append(patterns, locationPattern(loc))
		}
		filter["city_municipality"] = bson.M{"$in": patterns}
	}

	records, err := g.findMSMEs(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	sectors, err := g.ListSectors(ctx)
	if err != nil {
		return nil, 0, err
	}

	items, total := pageOf(records, sectors, filters, page, pageSize)
	return items, total, nil
}

func (g *Mongo) AllMSMEs(ctx context.Context) ([]models.MSME, error) {
	return g.findMSMEs(ctx, bson.M{})
}

func (g *Mongo) findMSMEs(ctx context.Context, filter bson.M) ([]models.MSME, error) {
	var docs []msmeDocument
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := utils.FindAllWithTimeout(ctx, g.msmes, filter, opts, &docs, g.timeout); err != nil {
		observability.DatabaseOperations.WithLabelValues("find_msmes", "error").Inc()
		return nil, fmt.Errorf("failed to list msmes: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("find_msmes", "success").Inc()

	out := make([]models.MSME, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.MSME)
	}
	return out, nil
}

func (g *Mongo) ListSectors(ctx context.Context) ([]models.Sector, error) {
	var docs []sectorDocument
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := utils.FindAllWithTimeout(ctx, g.sectors, bson.M{}, opts, &docs, g.timeout); err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}

	out := make([]models.Sector, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Sector)
	}
	return out, nil
}

func (g *Mongo) GetMSME(ctx context.Context, id int64) (models.MSME, error) {
	var doc msmeDocument
	err := utils.FindOneWithTimeout(ctx, g.msmes, bson.M{"_id": id}, &doc, g.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MSME{}, notFound(models.ErrMSMENotFound, id)
	}
	if err != nil {
		return models.MSME{}, fmt.Errorf("failed to get msme: %w", err)
	}
	return doc.MSME, nil
}

func (g *Mongo) CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error) {
	now := g.now()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := g.checkMSMEWrite(ctx, p, 0); err != nil {
		return models.MSME{}, err
	}

	id, err := g.nextID(ctx, g.msmes)
	if err != nil {
		return models.MSME{}, err
	}
	msme := models.NewMSME(id, p, ActorFrom(ctx), now)
	doc := msmeDocument{MSME: msme, NameKey: models.NormalizedName(msme.CompanyName)}
	if _, err := utils.InsertOneWithTimeout(ctx, g.msmes, doc, g.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.MSME{}, models.ErrDuplicateName
		}
		observability.DatabaseOperations.WithLabelValues("insert_msme", "error").Inc()
		return models.MSME{}, fmt.Errorf("failed to insert msme: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("insert_msme", "success").Inc()

	g.logger.Info("msme created", zap.Int64("msme_id", id), zap.Int64("sector_id", msme.SectorID))
	return msme, nil
}

func (g *Mongo) UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error) {
	msme, err := g.GetMSME(ctx, id)
	if err != nil {
		return models.MSME{}, err
	}

	now := g.now()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := g.checkMSMEWrite(ctx, p, id); err != nil {
		return models.MSME{}, err
	}

	msme.Apply(p, now)
	doc := msmeDocument{MSME: msme, NameKey: models.NormalizedName(msme.CompanyName)}
	res, err := utils.ReplaceOneWithTimeout(ctx, g.msmes, bson.M{"_id": id}, doc, g.timeout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.MSME{}, models.ErrDuplicateName
		}
		return models.MSME{}, fmt.Errorf("failed to update msme: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.MSME{}, notFound(models.ErrMSMENotFound, id)
	}
	return msme, nil
}

func (g *Mongo) DeleteMSME(ctx context.Context, id int64) error {
	res, err := utils.DeleteOneWithTimeout(ctx, g.msmes, bson.M{"_id": id}, g.timeout)
	if err != nil {
		return fmt.Errorf("failed to delete msme: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(models.ErrMSMENotFound, id)
	}
	return nil
}

func (g *Mongo) RecordVisit(ctx context.Context, id int64) error {
	return g.increment(ctx, id, "visits")
}

func (g *Mongo) RecordExport(ctx context.Context, id int64) error {
	return g.increment(ctx, id, "exports")
}

func (g *Mongo) increment(ctx context.Context, id int64, field string) error {
	res, err := utils.UpdateOneWithTimeout(ctx, g.msmes, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: int64(1)}}, g.timeout)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return notFound(models.ErrMSMENotFound, id)
	}
	return nil
}

func (g *Mongo) CompanyNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	filter := bson.M{"name_key": models.NormalizedName(name)}
	if excludeID != 0 {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := utils.CountDocumentsWithTimeout(ctx, g.msmes, filter, g.timeout)
	if err != nil {
		return false, fmt.Errorf("failed to check company name: %w", err)
	}
	return n > 0, nil
}

func (g *Mongo) GetSector(ctx context.Context, id int64) (models.Sector, error) {
	var doc sectorDocument
	err := utils.FindOneWithTimeout(ctx, g.sectors, bson.M{"_id": id}, &doc, g.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sector{}, notFound(models.ErrSectorNotFound, id)
	}
	if err != nil {
		return models.Sector{}, fmt.Errorf("failed to get sector: %w", err)
	}
	return doc.Sector, nil
}

func (g *Mongo) CreateSector(ctx context.Context, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}
	id, err := g.nextID(ctx, g.sectors)
	if err != nil {
		return models.Sector{}, err
	}

	now := g.now()
	s := models.Sector{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := utils.InsertOneWithTimeout(ctx, g.sectors, sectorDocument{Sector: s, NameKey: s.GetNormalizedName()}, g.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Sector{}, models.ErrSectorNameExists
		}
		return models.Sector{}, fmt.Errorf("failed to insert sector: %w", err)
	}
	return s, nil
}

func (g *Mongo) UpdateSector(ctx context.Context, id int64, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}
	s, err := g.GetSector(ctx, id)
	if err != nil {
		return models.Sector{}, err
	}

	s.Name = name
	s.UpdatedAt = g.now()
	update := bson.M{"$set": bson.M{"name": s.Name, "name_key": s.GetNormalizedName(), "updated_at": s.UpdatedAt}}
	if _, err := utils.UpdateOneWithTimeout(ctx, g.sectors, bson.M{"_id": id}, update, g.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Sector{}, models.ErrSectorNameExists
		}
		return models.Sector{}, fmt.Errorf("failed to update sector: %w", err)
	}
	return s, nil
}

func (g *Mongo) DeleteSector(ctx context.Context, id int64) error {
	if _, err := g.GetSector(ctx, id); err != nil {
		return err
	}
	n, err := utils.CountDocumentsWithTimeout(ctx, g.msmes, bson.M{"sector_id": id}, g.timeout)
	if err != nil {
		return fmt.Errorf("failed to count sector msmes: %w", err)
	}
	if n > 0 {
		return models.ErrSectorInUse
	}
	if _, err := utils.DeleteOneWithTimeout(ctx, g.sectors, bson.M{"_id": id}, g.timeout); err != nil {
		return fmt.Errorf("failed to delete sector: %w", err)
	}
	return nil
}

func (g *Mongo) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	var out []models.AdminAccount
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := utils.FindAllWithTimeout(ctx, g.admins, bson.M{}, opts, &out, g.timeout); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	if out == nil {
		out = []models.AdminAccount{}
	}
	return out, nil
}

func (g *Mongo) GetAdmin(ctx context.Context, id int64) (models.AdminAccount, error) {
	var a models.AdminAccount
	err := utils.FindOneWithTimeout(ctx, g.admins, bson.M{"_id": id}, &a, g.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AdminAccount{}, notFound(models.ErrAdminNotFound, id)
	}
	if err != nil {
		return models.AdminAccount{}, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

func (g *Mongo) CreateAdmin(ctx context.Context, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}
	if err := g.checkAdminSector(ctx, r); err != nil {
		return models.AdminAccount{}, err
	}
	id, err := g.nextID(ctx, g.admins)
	if err != nil {
		return models.AdminAccount{}, err
	}

	a := models.NewAdminAccount(id, r, g.now())
	if _, err := utils.InsertOneWithTimeout(ctx, g.admins, a, g.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.AdminAccount{}, models.ErrUsernameExists
		}
		return models.AdminAccount{}, fmt.Errorf("failed to insert admin: %w", err)
	}
	return a, nil
}

func (g *Mongo) UpdateAdmin(ctx context.Context, id int64, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}
	a, err := g.GetAdmin(ctx, id)
	if err != nil {
		return models.AdminAccount{}, err
	}
	if err := g.checkAdminSector(ctx, r); err != nil {
		return models.AdminAccount{}, err
	}

	a.Apply(r, g.now())
	if _, err := utils.ReplaceOneWithTimeout(ctx, g.admins, bson.M{"_id": id}, a, g.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.AdminAccount{}, models.ErrUsernameExists
		}
		return models.AdminAccount{}, fmt.Errorf("failed to update admin: %w", err)
	}
	return a, nil
}

func (g *Mongo) DeleteAdmin(ctx context.Context, id int64) error {
	res, err := utils.DeleteOneWithTimeout(ctx, g.admins, bson.M{"_id": id}, g.timeout)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(models.ErrAdminNotFound, id)
	}
	return nil
}

func (g *Mongo) Ping(ctx context.Context) error {
	return g.db.Client().Ping(ctx, readpref.Primary())
}

// Close is a no-op: the client is owned by config.CloseMongoDB
func (g *Mongo) Close() error { return nil }

func (g *Mongo) checkMSMEWrite(ctx context.Context, p models.MSMEPayload, id int64) error {
	if _, err := g.GetSector(ctx, p.SectorID); err != nil {
		return err
	}
	exists, err := g.CompanyNameExists(ctx, p.CompanyName, id)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrDuplicateName
	}
	return nil
}

func (g *Mongo) checkAdminSector(ctx context.Context, r models.AdminAccountRequest) error {
	if r.SectorID == 0 {
		return nil
	}
	_, err := g.GetSector(ctx, r.SectorID)
	return err
}

// locationPattern matches a city/municipality name case-insensitively
func locationPattern(location string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(location) + "$", Options: "i"}
}
