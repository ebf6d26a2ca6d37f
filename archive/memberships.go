package archive

import (
	"context"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/store"
	"github.com/atticdev/attic/types"
)

// StoreMemberships resolves project membership by looking the project
// up in the live project collection. It is the default resolver; a
// deployment with an external membership service can supply its own.
type StoreMemberships struct {
	Items store.ItemStores
}

func (r StoreMemberships) HasProjectAccess(ctx context.Context, userID, projectID string) (bool, error) {
	st, err := r.Items.ForType(models.ItemTypeProject)
	if err != nil {
		return false, err
	}
	item, err := st.Get(projectID)
	if err != nil {
		if types.IsCode(err, types.CodeNotFound) {
			// A dangling project reference grants nothing.
			return false, nil
		}
		return false, err
	}
	project, ok := item.(models.Project)
	if !ok {
		return false, nil
	}
	return project.HasMember(userID), nil
}
