package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	apperrors "shopkeep/pkg/errors"
)

type stubMediaHost struct {
	uploads  []string // file names in call order
	kinds    []entity.SlotKind
	failures int // fail this many leading calls
	calls    int
}

func (s *stubMediaHost) Upload(ctx context.Context, file entity.LocalFile, kind entity.SlotKind, onProgress service.UploadProgressFunc) (*entity.UploadResult, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, apperrors.UploadFailed(3, assert.AnError)
	}
	s.uploads = append(s.uploads, file.Name)
	s.kinds = append(s.kinds, kind)
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return &entity.UploadResult{URL: "https://cdn.example/" + file.Name, RemoteID: "id-" + file.Name}, nil
}

type stubProductAPI struct {
	payloads []service.ProductPayload
	err      error
}

func (s *stubProductAPI) CreateOrUpdate(ctx context.Context, payload service.ProductPayload) (*entity.Product, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Product{ID: "prod-1", Name: payload.Name}, nil
}

func TestSubmitMetadataOnlyPathSkipsUploads(t *testing.T) {
	host := &stubMediaHost{}
	api := &stubProductAPI{}
	uc := NewSubmitUseCase(host, api)

	d := validDraft()
	d.ProductID = "prod-1"
	d.Media = entity.MediaSet{
		Main: entity.ImageSlot{RemoteURL: "https://cdn.example/main.jpg", RemoteID: "id-main"},
		Subs: []entity.ImageSlot{{RemoteURL: "https://cdn.example/sub.jpg", RemoteID: "id-sub"}},
	}

	_, err := uc.Submit(context.Background(), d, nil)
	require.NoError(t, err)

	assert.Zero(t, host.calls, "no uploads expected on the metadata-only path")
	require.Len(t, api.payloads, 1)
	payload := api.payloads[0]
	assert.Equal(t, "https://cdn.example/main.jpg", payload.MainImage.URL)
	require.Len(t, payload.SubImages, 1)
	assert.Equal(t, "https://cdn.example/sub.jpg", payload.SubImages[0].URL)
}

func TestSubmitFullPathUploadsMainThenSubsInOrder(t *testing.T) {
	host := &stubMediaHost{}
	api := &stubProductAPI{}
	uc := NewSubmitUseCase(host, api)

	d := validDraft()
	d.Media.SetMainLocal(entity.LocalFile{Name: "main.jpg", Data: []byte("m")})
	require.True(t, d.Media.AddSubLocal(entity.LocalFile{Name: "sub-a.jpg", Data: []byte("a")}))
	require.True(t, d.Media.AddSubLocal(entity.LocalFile{Name: "sub-b.jpg", Data: []byte("b")}))

	var progressSlots []string
	_, err := uc.Submit(context.Background(), d, func(slot string, percent int) {
		if percent == 50 {
			progressSlots = append(progressSlots, slot)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"main.jpg", "sub-a.jpg", "sub-b.jpg"}, host.uploads)
	assert.Equal(t, []entity.SlotKind{entity.SlotMain, entity.SlotSub, entity.SlotSub}, host.kinds)
	assert.Equal(t, []string{"main", "sub0", "sub1"}, progressSlots)

	require.Len(t, api.payloads, 1)
	payload := api.payloads[0]
	assert.Equal(t, "https://cdn.example/main.jpg", payload.MainImage.URL)
	require.Len(t, payload.SubImages, 2)
	assert.Equal(t, 1, payload.SubImages[0].DisplayOrder)
	assert.Equal(t, 2, payload.SubImages[1].DisplayOrder)
}

func TestSubmitFullPathMergesPersistedSubImages(t *testing.T) {
	host := &stubMediaHost{}
	api := &stubProductAPI{}
	uc := NewSubmitUseCase(host, api)

	d := validDraft()
	d.ProductID = "prod-1"
	d.Media = entity.MediaSet{
		Main: entity.ImageSlot{RemoteURL: "https://cdn.example/old-main.jpg", RemoteID: "id-old"},
		Subs: []entity.ImageSlot{
			{RemoteURL: "https://cdn.example/old-sub.jpg", RemoteID: "id-old-sub"},
		},
	}
	require.True(t, d.Media.AddSubLocal(entity.LocalFile{Name: "new-sub.jpg", Data: []byte("n")}))

	_, err := uc.Submit(context.Background(), d, nil)
	require.NoError(t, err)

	// Persisted main is not re-uploaded; only the one new sub goes up
	assert.Equal(t, []string{"new-sub.jpg"}, host.uploads)

	payload := api.payloads[0]
	assert.Equal(t, "https://cdn.example/old-main.jpg", payload.MainImage.URL)
	require.Len(t, payload.SubImages, 2)
	assert.Equal(t, "https://cdn.example/old-sub.jpg", payload.SubImages[0].URL)
	assert.Equal(t, "https://cdn.example/new-sub.jpg", payload.SubImages[1].URL)
}

func TestSubmitAbortsOnUploadFailure(t *testing.T) {
	host := &stubMediaHost{failures: 1}
	api := &stubProductAPI{}
	uc := NewSubmitUseCase(host, api)

	d := validDraft()
	d.Media.SetMainLocal(entity.LocalFile{Name: "main.jpg", Data: []byte("m")})
	require.True(t, d.Media.AddSubLocal(entity.LocalFile{Name: "sub.jpg", Data: []byte("s")}))

	_, err := uc.Submit(context.Background(), d, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUploadFailed))

	// No partial product is created and the later uploads never start
	assert.Empty(t, api.payloads)
	assert.Equal(t, 1, host.calls)
}
