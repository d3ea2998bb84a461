package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bloodconnect/internal/config"
	"bloodconnect/internal/domain"
)

// MongoStore хранилище документов поверх MongoDB. Коллекции: users,
// donations, medicines, images. Выборки отдают коллекцию целиком —
// фильтрация выполняется клиентски, поверх снимка.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoStore(cfg *config.MongoDBConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoStore{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// listAll сохраняет порядок вставки за счёт сортировки по created_at
var listAllOpts = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

var _ MedicineRepository = (*MongoStore)(nil)

// MedicineRepository implementation
func (m *MongoStore) Create(ctx context.Context, med *domain.Medicine) error {
	med.ID = uuid.NewString()
	if med.CreatedAt.IsZero() {
		med.CreatedAt = time.Now().UTC()
	}
	_, err := m.database.Collection("medicines").InsertOne(ctx, med)
	return err
}

func (m *MongoStore) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var med domain.Medicine
	err := m.database.Collection("medicines").FindOne(ctx, bson.M{"_id": id}).Decode(&med)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &med, nil
}

func (m *MongoStore) Update(ctx context.Context, med *domain.Medicine) error {
	res, err := m.database.Collection("medicines").UpdateOne(ctx,
		bson.M{"_id": med.ID},
		bson.M{"$set": bson.M{
			"name":        med.Name,
			"description": med.Description,
			"price":       med.Price,
			"stock":       med.Stock,
			"image_url":   med.ImageURL,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.database.Collection("medicines").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context) ([]domain.Medicine, error) {
	cursor, err := m.database.Collection("medicines").Find(ctx, bson.M{}, listAllOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]domain.Medicine, 0)
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MongoDonations коллекция донаций
type MongoDonations struct{ store *MongoStore }

func NewMongoDonations(store *MongoStore) *MongoDonations { return &MongoDonations{store: store} }

var _ DonationRepository = (*MongoDonations)(nil)

func (md *MongoDonations) Create(ctx context.Context, d *domain.Donation) error {
	d.ID = uuid.NewString()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := md.store.database.Collection("donations").InsertOne(ctx, d)
	return err
}

func (md *MongoDonations) List(ctx context.Context) ([]domain.Donation, error) {
	cursor, err := md.store.database.Collection("donations").Find(ctx, bson.M{}, listAllOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]domain.Donation, 0)
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MongoUsers коллекция пользователей
type MongoUsers struct{ store *MongoStore }

func NewMongoUsers(store *MongoStore) *MongoUsers { return &MongoUsers{store: store} }

var _ UserRepository = (*MongoUsers)(nil)

func (mu *MongoUsers) Create(ctx context.Context, u *domain.User) error {
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := mu.store.database.Collection("users").InsertOne(ctx, u)
	return err
}

func (mu *MongoUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return mu.findOne(ctx, bson.M{"_id": id})
}

func (mu *MongoUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return mu.findOne(ctx, bson.M{"email": email})
}

func (mu *MongoUsers) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := mu.store.database.Collection("users").FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MongoImages коллекция метаданных изображений
type MongoImages struct{ store *MongoStore }

func NewMongoImages(store *MongoStore) *MongoImages { return &MongoImages{store: store} }

var _ ImageRepository = (*MongoImages)(nil)

func (mi *MongoImages) Create(ctx context.Context, img *domain.Image) error {
	img.ID = uuid.NewString()
	_, err := mi.store.database.Collection("images").InsertOne(ctx, img)
	return err
}

func (mi *MongoImages) List(ctx context.Context) ([]domain.Image, error) {
	cursor, err := mi.store.database.Collection("images").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]domain.Image, 0)
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (mi *MongoImages) GetByName(ctx context.Context, name string) (*domain.Image, error) {
	var img domain.Image
	err := mi.store.database.Collection("images").FindOne(ctx, bson.M{"name": name}).Decode(&img)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}
