package dto

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"time"

	"pereval/internal/app/ds"
	"pereval/internal/app/repository"
)

// ============ Общий конверт ответа ============

// IDResponse - ответ на создание и редактирование. id = null при ошибке
type IDResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	ID      *uint  `json:"id"`
}

// DataResponse - ответ с данными. data = null (или []) если ничего не найдено
type DataResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// StatusResponse - ответ без данных
type StatusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var coordinateType = reflect.TypeOf(Coordinate(0))

// Coordinate принимает число или строку с числом ("45.3842")
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + string(b), Type: coordinateType}
	}
	*c = Coordinate(v)
	return nil
}

// ============ Создание перевала ============

type UserRequest struct {
	Email string  `json:"email" binding:"required,email,max=254"`
	Fam   string  `json:"fam" binding:"required,max=255"`
	Name  string  `json:"name" binding:"required,max=255"`
	Otc   *string `json:"otc" binding:"omitempty,max=255"`
	Phone *string `json:"phone" binding:"omitempty,phone"`
}

type CoordsRequest struct {
	Latitude  *Coordinate `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *Coordinate `json:"longitude" binding:"required,min=-180,max=180"`
	Height    *int        `json:"height"`
}

type LevelRequest struct {
	Winter string `json:"winter" binding:"level"`
	Summer string `json:"summer" binding:"level"`
	Autumn string `json:"autumn" binding:"level"`
	Spring string `json:"spring" binding:"level"`
}

// ImageRequest: data - base64 (или data URI) изображения либо ключ уже загруженного объекта
type ImageRequest struct {
	Data  string `json:"data" binding:"required"`
	Title string `json:"title" binding:"required,max=255"`
}

type CreatePerevalRequest struct {
	BeautyTitle *string        `json:"beauty_title" binding:"omitempty,max=255"`
	Title       string         `json:"title" binding:"required,max=255"`
	OtherTitles *string        `json:"other_titles" binding:"omitempty,max=255"`
	Connect     *string        `json:"connect"`
	User        *UserRequest   `json:"user" binding:"required"`
	Coords      *CoordsRequest `json:"coords" binding:"required"`
	Level       *LevelRequest  `json:"level"`
	AreaID      *uint          `json:"area_id"`
	Activities  []uint         `json:"activities"`
	Images      []ImageRequest `json:"images" binding:"omitempty,dive"`
}

// ToInput переводит запрос в данные для репозитория. Images[i].Data остается сырым
func (r *CreatePerevalRequest) ToInput() repository.PerevalInput {
	in := repository.PerevalInput{
		User: repository.UserInput{
			Email: r.User.Email,
			Fam:   r.User.Fam,
			Name:  r.User.Name,
			Otc:   r.User.Otc,
			Phone: r.User.Phone,
		},
		Coords: repository.CoordsInput{
			Latitude:  float64(*r.Coords.Latitude),
			Longitude: float64(*r.Coords.Longitude),
			Height:    r.Coords.Height,
		},
		BeautyTitle: r.BeautyTitle,
		Title:       r.Title,
		OtherTitles: r.OtherTitles,
		Connect:     r.Connect,
		AreaID:      r.AreaID,
		ActivityIDs: r.Activities,
		Images:      make([]repository.ImageInput, 0, len(r.Images)),
	}
	if r.Level != nil {
		in.Level = repository.LevelInput{
			Winter: r.Level.Winter,
			Summer: r.Level.Summer,
			Autumn: r.Level.Autumn,
			Spring: r.Level.Spring,
		}
	}
	for _, img := range r.Images {
		in.Images = append(in.Images, repository.ImageInput{Data: img.Data, Title: img.Title})
	}
	return in
}

// ============ Редактирование перевала ============

type CoordsPatchRequest struct {
	Latitude  *Coordinate `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *Coordinate `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Height    *int        `json:"height"`
}

type LevelPatchRequest struct {
	Winter *string `json:"winter" binding:"omitempty,level"`
	Summer *string `json:"summer" binding:"omitempty,level"`
	Autumn *string `json:"autumn" binding:"omitempty,level"`
	Spring *string `json:"spring" binding:"omitempty,level"`
}

// ImagePatchRequest: с id - изменение существующего изображения, без id - новое (data и title обязательны)
type ImagePatchRequest struct {
	ID    *uint   `json:"id"`
	Data  *string `json:"data" binding:"required_without=ID,omitempty,min=1"`
	Title *string `json:"title" binding:"required_without=ID,omitempty,min=1,max=255"`
}

// UpdatePerevalRequest - частичное обновление. Поле user игнорируется
type UpdatePerevalRequest struct {
	BeautyTitle    *string             `json:"beauty_title" binding:"omitempty,max=255"`
	Title          *string             `json:"title" binding:"omitempty,min=1,max=255"`
	OtherTitles    *string             `json:"other_titles" binding:"omitempty,max=255"`
	Connect        *string             `json:"connect"`
	Coords         *CoordsPatchRequest `json:"coords"`
	Level          *LevelPatchRequest  `json:"level"`
	AreaID         *uint               `json:"area_id"`
	Activities     *[]uint             `json:"activities"`
	Images         []ImagePatchRequest `json:"images" binding:"omitempty,dive"`
	ImagesToDelete []uint              `json:"images_to_delete"`
}

func (r *UpdatePerevalRequest) ToPatch() repository.PerevalPatch {
	patch := repository.PerevalPatch{
		BeautyTitle:    r.BeautyTitle,
		Title:          r.Title,
		OtherTitles:    r.OtherTitles,
		Connect:        r.Connect,
		AreaID:         r.AreaID,
		ActivityIDs:    r.Activities,
		ImagesToDelete: r.ImagesToDelete,
	}
	if r.Coords != nil {
		patch.Coords = &repository.CoordsPatch{
			Latitude:  (*float64)(r.Coords.Latitude),
			Longitude: (*float64)(r.Coords.Longitude),
			Height:    r.Coords.Height,
		}
	}
	if r.Level != nil {
		patch.Level = &repository.LevelPatch{
			Winter: r.Level.Winter,
			Summer: r.Level.Summer,
			Autumn: r.Level.Autumn,
			Spring: r.Level.Spring,
		}
	}
	for _, img := range r.Images {
		patch.Images = append(patch.Images, repository.ImagePatch{
			ID:    img.ID,
			Data:  img.Data,
			Title: img.Title,
		})
	}
	return patch
}

// ============ Модерация ============

type ModerationRequest struct {
	Status string `json:"status" binding:"required,oneof=new pending accepted rejected"`
}

// ============ Представление перевала ============

type UserResponse struct {
	Email string  `json:"email"`
	Fam   string  `json:"fam"`
	Name  string  `json:"name"`
	Otc   *string `json:"otc"`
	Phone *string `json:"phone"`
}

type CoordsResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    *int    `json:"height"`
}

type LevelResponse struct {
	Winter string `json:"winter"`
	Summer string `json:"summer"`
	Autumn string `json:"autumn"`
	Spring string `json:"spring"`
}

type ImageResponse struct {
	ID        uint      `json:"id"`
	Data      string    `json:"data"` // URL изображения
	Title     string    `json:"title"`
	DateAdded time.Time `json:"date_added"`
}

type AreaResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	ParentID *uint  `json:"parent_id"`
}

type ActivityResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type PerevalResponse struct {
	ID          uint               `json:"id"`
	BeautyTitle *string            `json:"beauty_title"`
	Title       string             `json:"title"`
	OtherTitles *string            `json:"other_titles"`
	Connect     *string            `json:"connect"`
	AddTime     time.Time          `json:"add_time"`
	Status      string             `json:"status"`
	User        UserResponse       `json:"user"`
	Coords      CoordsResponse     `json:"coords"`
	Level       LevelResponse      `json:"level"`
	Area        *AreaResponse      `json:"area"`
	Activities  []ActivityResponse `json:"activities"`
	Images      []ImageResponse    `json:"images"`
}

// NewPerevalResponse строит представление перевала. imageURL превращает ключ объекта в ссылку
func NewPerevalResponse(p *ds.PerevalAdded, imageURL func(key string) string) PerevalResponse {
	resp := PerevalResponse{
		ID:          p.ID,
		BeautyTitle: p.BeautyTitle,
		Title:       p.Title,
		OtherTitles: p.OtherTitles,
		Connect:     p.Connect,
		AddTime:     p.AddTime,
		Status:      p.Status,
		User: UserResponse{
			Email: p.User.Email,
			Fam:   p.User.Fam,
			Name:  p.User.Name,
			Otc:   p.User.Otc,
			Phone: p.User.Phone,
		},
		Coords: CoordsResponse{
			Latitude:  p.Coords.Latitude,
			Longitude: p.Coords.Longitude,
			Height:    p.Coords.Height,
		},
		Activities: make([]ActivityResponse, 0, len(p.Activities)),
		Images:     make([]ImageResponse, 0, len(p.Images)),
	}
	if p.Level != nil {
		resp.Level = LevelResponse{
			Winter: p.Level.Winter,
			Summer: p.Level.Summer,
			Autumn: p.Level.Autumn,
			Spring: p.Level.Spring,
		}
	}
	if p.Area != nil {
		area := NewAreaResponse(*p.Area)
		resp.Area = &area
	}
	for _, a := range p.Activities {
		resp.Activities = append(resp.Activities, ActivityResponse{ID: a.ID, Title: a.Title})
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID,
			Data:      imageURL(img.Data),
			Title:     img.Title,
			DateAdded: img.DateAdded,
		})
	}
	return resp
}

func NewAreaResponse(a ds.PerevalArea) AreaResponse {
	return AreaResponse{ID: a.ID, Title: a.Title, ParentID: a.ParentID}
}
